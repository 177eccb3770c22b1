package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sectorboard/internal/dashboard"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their activities",
	}
	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectStatsCmd(app),
		newProjectAddCmd(app),
		newProjectSetCmd(app),
		newProjectDeleteCmd(app),
		newProjectSelectCmd(app),
		newProjectProgressCmd(app),
		newProjectActivityCmd(app),
	)
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, optionally by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			t, err := d.ProjectTable(status)
			if err != nil {
				return err
			}
			if app.flags.jsonMode {
				return app.printJSON(d.Projects().Filter(status))
			}
			title := "Projects"
			if status != "" {
				title += " (" + status + ")"
			}
			return app.renderer().Table(title, t)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "planning, active, completed or suspended")
	return cmd
}

func newProjectStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals across all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			st := d.Projects().OverallStats()
			if app.flags.jsonMode {
				return app.printJSON(st)
			}
			return app.renderer().Stats("Projects", projectStatCards(st))
		},
	}
}

func newProjectAddCmd(app *App) *cobra.Command {
	var p types.Project
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			in := p.Clone()
			in.Name = args[0]
			if in.Sector == "" {
				in.Sector = d.Sectors().CurrentID()
			}
			next, created, err := d.Projects().Add(in)
			if err != nil {
				return err
			}
			d.SetProjects(next)
			d.Notifier().Notify(types.LevelSuccess, "Project added")
			return app.showProject(created)
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Description, "description", "", "project description")
	f.StringVar(&p.Status, "status", "", "initial status (default planning)")
	f.StringVar(&p.Sector, "sector", "", "sector ID (default current sector)")
	f.StringVar(&p.Location, "location", "", "location")
	f.StringVar(&p.Manager, "manager", "", "project manager")
	f.StringVar(&p.StartDate, "start", "", "start date YYYY-MM-DD")
	f.StringVar(&p.EndDate, "end", "", "end date YYYY-MM-DD")
	f.Float64Var(&p.Budget, "budget", 0, "budget in EUR")
	f.IntVar(&p.Beneficiaries, "beneficiaries", 0, "number of beneficiaries")
	return cmd
}

func newProjectSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <key=value>...",
		Short: "Update project fields",
		Long:  "Keys: name, sector, status, progress, budget, manager, location, beneficiaries.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			t, err := d.ProjectTable("")
			if err != nil {
				return err
			}
			as, err := parseAssignments(t.Schema(), args[1:])
			if err != nil {
				return err
			}
			if err := checkAssignments(t.Schema(), as); err != nil {
				return err
			}
			row := rowOf(t, args[0])
			if row < 0 {
				return fmt.Errorf("project %s: %w", args[0], types.ErrNotFound)
			}
			for _, a := range as {
				if err := t.Update(row, a.key, a.value); err != nil {
					return err
				}
			}
			p, err := d.Projects().Get(args[0])
			if err != nil {
				return err
			}
			return app.showProject(p)
		},
	}
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			next, err := d.Projects().Delete(args[0])
			if err != nil {
				return err
			}
			d.SetProjects(next)
			d.Notifier().Notify(types.LevelSuccess, "Project deleted")
			if app.flags.jsonMode {
				return app.printJSON(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(app.out, "Deleted project %s\n", args[0])
			return nil
		},
	}
}

func newProjectSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select [id]",
		Short: "Make a project current, or clear the selection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			next := d.Projects().Select(id)
			d.SetProjects(next)
			cur, ok := next.Current()
			if !ok {
				if app.flags.jsonMode {
					return app.printJSON(nil)
				}
				fmt.Fprintln(app.out, "No project selected")
				return nil
			}
			return app.showProject(cur)
		},
	}
}

func newProjectProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id>",
		Short: "Show the mean progress of a project's activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			if _, err := d.Projects().Get(args[0]); err != nil {
				return err
			}
			pct := d.Projects().Progress(args[0])
			if app.flags.jsonMode {
				return app.printJSON(map[string]int{"progress": pct})
			}
			fmt.Fprintln(app.out, percent(pct))
			return nil
		},
	}
}

func newProjectActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage the activities of a project",
	}

	var a types.Activity
	add := &cobra.Command{
		Use:   "add <project-id> <name>",
		Short: "Add an activity to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			in := a.Clone()
			in.Name = args[1]
			next, created, err := d.Projects().AddActivity(args[0], in)
			if err != nil {
				return err
			}
			d.SetProjects(next)
			d.Notifier().Notify(types.LevelSuccess, "Activity added")
			if app.flags.jsonMode {
				return app.printJSON(created)
			}
			fmt.Fprintf(app.out, "Added activity %s to project %s\n", created.ID, args[0])
			return nil
		},
	}
	af := add.Flags()
	af.StringVar(&a.Description, "description", "", "activity description")
	af.StringVar(&a.Status, "status", "", "initial status (default not-started)")
	af.StringVar(&a.Responsible, "responsible", "", "responsible person")
	af.StringVar(&a.StartDate, "start", "", "start date YYYY-MM-DD")
	af.StringVar(&a.EndDate, "end", "", "end date YYYY-MM-DD")
	af.Float64Var(&a.Budget, "budget", 0, "budget in EUR")

	var (
		name, status, responsible string
		progress                  int
	)
	set := &cobra.Command{
		Use:   "set <project-id> <activity-id>",
		Short: "Update an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			var patch types.ActivityPatch
			f := cmd.Flags()
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("status") {
				patch.Status = &status
			}
			if f.Changed("responsible") {
				patch.Responsible = &responsible
			}
			if f.Changed("progress") {
				if progress < 0 || progress > 100 {
					return fmt.Errorf("progress %d: want 0-100", progress)
				}
				patch.Progress = &progress
			}
			next, err := d.Projects().UpdateActivity(args[0], args[1], patch)
			if err != nil {
				return err
			}
			d.SetProjects(next)
			d.Notifier().Notify(types.LevelSuccess, "Activity updated")
			p, err := next.Get(args[0])
			if err != nil {
				return err
			}
			return app.showProject(p)
		},
	}
	sf := set.Flags()
	sf.StringVar(&name, "name", "", "activity name")
	sf.StringVar(&status, "status", "", "not-started, in-progress, completed or delayed")
	sf.StringVar(&responsible, "responsible", "", "responsible person")
	sf.IntVar(&progress, "progress", 0, "progress 0-100")

	cmd.AddCommand(add, set)
	return cmd
}

// showProject prints a project with its activities.
func (a *App) showProject(p types.Project) error {
	if a.flags.jsonMode {
		return a.printJSON(p)
	}
	r := a.renderer()
	if err := r.Record(dashboard.ProjectSchema(), dashboard.ProjectRecord(p)); err != nil {
		return err
	}
	if len(p.Activities) == 0 {
		return nil
	}
	rows := make([][]string, len(p.Activities))
	for i, act := range p.Activities {
		rows[i] = []string{act.ID, act.Name, act.Status, percent(act.Progress), act.Responsible}
	}
	return r.Grid("Activities", []string{"ID", "Activity", "Status", "Progress", "Responsible"}, rows)
}

