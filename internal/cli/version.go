package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the board release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/sectorboard"

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the board version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.flags.jsonMode {
				return app.printJSON(map[string]string{"version": Version, "module": modulePath})
			}
			fmt.Fprintf(app.out, "board v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
