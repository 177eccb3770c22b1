package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sectorboard/internal/render"
)

func newSectorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sector",
		Short: "Inspect and switch sector configurations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the available sectors",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				s := d.Sectors()
				if app.flags.jsonMode {
					return app.printJSON(s.Available())
				}
				rows := [][]string{}
				for _, c := range s.Available() {
					mark := ""
					if c.ID == s.CurrentID() {
						mark = "*"
					}
					rows = append(rows, []string{mark, c.ID, c.Name, strconv.Itoa(len(c.Modules)), c.EvaluationFramework.Name})
				}
				return app.renderer().Grid("Sectors", []string{"", "ID", "Name", "Modules", "Framework"}, rows)
			},
		},
		&cobra.Command{
			Use:   "show [id]",
			Short: "Show a sector's modules and evaluation framework",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				s := d.Sectors()
				c := s.Current()
				if len(args) == 1 {
					if c, err = s.Get(args[0]); err != nil {
						return err
					}
				}
				if app.flags.jsonMode {
					return app.printJSON(c)
				}
				return app.renderer().Sector(c, c.ID == s.CurrentID())
			},
		},
		&cobra.Command{
			Use:   "switch <id>",
			Short: "Select the current sector",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				next, err := d.Sectors().Switch(args[0])
				if err != nil {
					return err
				}
				d.SetSectors(next)
				cur := next.Current()
				if app.flags.jsonMode {
					return app.printJSON(cur)
				}
				fmt.Fprintf(app.out, "Current sector: %s\n", cur.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Count sectors, modules, fields and framework entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				st := d.Sectors().OverallStats()
				if app.flags.jsonMode {
					return app.printJSON(st)
				}
				return app.renderer().Stats("Sector configuration", []render.Stat{
					{Label: "Sectors", Value: strconv.Itoa(st.Sectors)},
					{Label: "Modules", Value: strconv.Itoa(st.Modules)},
					{Label: "Fields", Value: strconv.Itoa(st.Fields)},
					{Label: "Metrics", Value: strconv.Itoa(st.Metrics)},
					{Label: "Phases", Value: strconv.Itoa(st.Phases)},
					{Label: "Indicators", Value: strconv.Itoa(st.Indicators)},
				})
			},
		},
		&cobra.Command{
			Use:   "config-mode",
			Short: "Toggle sector configuration mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := app.Board()
				if err != nil {
					return err
				}
				next := d.Sectors().ToggleConfigMode()
				d.SetSectors(next)
				if app.flags.jsonMode {
					return app.printJSON(map[string]bool{"configurable": next.Configurable()})
				}
				fmt.Fprintf(app.out, "Configuration mode %s\n", onOff(next.Configurable()))
				return nil
			},
		},
	)
	return cmd
}
