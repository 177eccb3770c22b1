package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sectorboard/internal/dashboard"
	"github.com/mesh-intelligence/sectorboard/internal/render"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func newTableCmd(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Edit the record tables row by row",
		Long: "Tables: " + fmt.Sprint(types.StandardTableNames) + ".\n" +
			"Rows are addressed by their zero-based index as shown by \"table get\".",
	}
	cmd.PersistentFlags().StringVar(&status, "status", "", "project status filter (projects table only)")

	resolve := func(name string) (types.Table, error) {
		d, err := app.Board()
		if err != nil {
			return nil, err
		}
		if status != "" {
			if name != types.TableProjects {
				return nil, fmt.Errorf("--status applies to the %s table only", types.TableProjects)
			}
			return d.ProjectTable(status)
		}
		return d.Table(name)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the tables and their row counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				counts := make(map[string]int, len(types.StandardTableNames))
				rows := make([][]string, 0, len(types.StandardTableNames))
				for _, name := range types.StandardTableNames {
					t, err := d.Table(name)
					if err != nil {
						return sysErr(err)
					}
					counts[name] = t.Len()
					rows = append(rows, []string{name, strconv.Itoa(t.Len())})
				}
				if app.flags.jsonMode {
					return app.printJSON(counts)
				}
				return app.renderer().Grid("Tables", []string{"Table", "Rows"}, rows)
			},
		},
		&cobra.Command{
			Use:   "get <table> [id]",
			Short: "Show a table, or one record by ID",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := resolve(args[0])
				if err != nil {
					return err
				}
				if len(args) == 2 {
					r, err := t.Get(args[1])
					if err != nil {
						return fmt.Errorf("%s %s: %w", args[0], args[1], err)
					}
					if app.flags.jsonMode {
						return app.printJSON(r)
					}
					return app.renderer().Record(t.Schema(), r)
				}
				if app.flags.jsonMode {
					return app.printJSON(t.Rows())
				}
				return app.renderer().Table(args[0], t)
			},
		},
		&cobra.Command{
			Use:   "set <table> <row> <key=value>...",
			Short: "Update fields of one row",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := resolve(args[0])
				if err != nil {
					return err
				}
				row, err := parseRow(args[1])
				if err != nil {
					return err
				}
				as, err := parseAssignments(t.Schema(), args[2:])
				if err != nil {
					return err
				}
				if err := checkAssignments(t.Schema(), as); err != nil {
					return err
				}
				target, err := rowAt(t, row)
				if err != nil {
					return err
				}
				for _, a := range as {
					// The project table can reorder under a status filter, so
					// each edit re-locates the row by ID.
					if row = rowOf(t, target.ID); row < 0 {
						return fmt.Errorf("%s: %w", target.ID, types.ErrNotFound)
					}
					if err := t.Update(row, a.key, a.value); err != nil {
						return err
					}
				}
				return app.showRecord(t, target.ID)
			},
		},
		&cobra.Command{
			Use:   "add <table> [key=value]...",
			Short: "Append a row; unset fields take their defaults",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := resolve(args[0])
				if err != nil {
					return err
				}
				as, err := parseAssignments(t.Schema(), args[1:])
				if err != nil {
					return err
				}
				r, err := t.Add(assignmentMap(as))
				if err != nil {
					return err
				}
				return app.showRecord(t, r.ID)
			},
		},
		&cobra.Command{
			Use:   "delete <table> <row>",
			Short: "Remove a row",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := resolve(args[0])
				if err != nil {
					return err
				}
				row, err := parseRow(args[1])
				if err != nil {
					return err
				}
				r, err := t.Delete(row)
				if err != nil {
					return err
				}
				if app.flags.jsonMode {
					return app.printJSON(r)
				}
				fmt.Fprintf(app.out, "Deleted %s %s\n", args[0], r.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats <table>",
			Short: "Show the figures derived from a table",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				v, cards, err := tableStats(d, args[0])
				if err != nil {
					return err
				}
				if app.flags.jsonMode {
					return app.printJSON(v)
				}
				return app.renderer().Stats(args[0], cards)
			},
		},
	)
	return cmd
}

func rowAt(t types.Table, row int) (types.Record, error) {
	rows := t.Rows()
	if row < 0 || row >= len(rows) {
		return types.Record{}, fmt.Errorf("row %d of %d: %w", row, len(rows), types.ErrInvalidIndex)
	}
	return rows[row], nil
}

// showRecord prints the current version of a record after a mutation.
func (a *App) showRecord(t types.Table, id string) error {
	r, err := t.Get(id)
	if err != nil {
		return err
	}
	if a.flags.jsonMode {
		return a.printJSON(r)
	}
	return a.renderer().Record(t.Schema(), r)
}

// tableStats returns the derived figures of a table, both as a value for
// JSON output and as cards.
func tableStats(d *dashboard.Dashboard, name string) (any, []render.Stat, error) {
	switch name {
	case types.TableCrops:
		s := d.Crops.Stats()
		return s, []render.Stat{
			{Label: "Evaluations", Value: strconv.Itoa(s.Total)},
			{Label: "Optimal", Value: strconv.Itoa(s.Optimal)},
			{Label: "Action required", Value: strconv.Itoa(s.ActionRequired)},
			{Label: "Average yield", Value: fmt.Sprintf("%.1f%%", s.AverageYield)},
		}, nil
	case types.TableIndicators, types.TableActivities:
		s := d.Monitoring.Stats()
		return s, []render.Stat{
			{Label: "Overall progress", Value: percent(s.OverallProgress)},
			{Label: "Indicators", Value: strconv.Itoa(s.Indicators)},
			{Label: "Activities", Value: strconv.Itoa(s.Activities)},
		}, nil
	case types.TableForms, types.TableSubmissions:
		s := d.Collection.Stats()
		return s, []render.Stat{
			{Label: "Forms", Value: fmt.Sprintf("%d (%d active)", s.Forms, s.ActiveForms)},
			{Label: "Responses", Value: strconv.Itoa(s.TotalResponses)},
			{Label: "Pending", Value: strconv.Itoa(s.Pending)},
			{Label: "Validated", Value: strconv.Itoa(s.Validated)},
			{Label: "Rejected", Value: strconv.Itoa(s.Rejected)},
		}, nil
	case types.TableProjects:
		s := d.Projects().OverallStats()
		return s, projectStatCards(s), nil
	default:
		return nil, nil, fmt.Errorf("%q: %w", name, types.ErrTableNotFound)
	}
}

func projectStatCards(s types.ProjectStats) []render.Stat {
	return []render.Stat{
		{Label: "Projects", Value: strconv.Itoa(s.TotalProjects)},
		{Label: "Active", Value: strconv.Itoa(s.ActiveProjects)},
		{Label: "Completed", Value: strconv.Itoa(s.CompletedProjects)},
		{Label: "Budget", Value: strconv.FormatFloat(s.TotalBudget, 'f', 0, 64) + " EUR"},
		{Label: "Beneficiaries", Value: strconv.Itoa(s.TotalBeneficiaries)},
	}
}
