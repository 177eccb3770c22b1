package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sectorboard/internal/paths"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and export directories",
		Long:  "Create the configuration directory with a default config.yaml, then the export directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(app.configDir, 0o755); err != nil {
				return sysErr(fmt.Errorf("create config directory: %w", err))
			}
			path := filepath.Join(app.configDir, configFileExt)
			written, err := writeConfigIfMissing(path, app.cfg)
			if err != nil {
				return sysErr(fmt.Errorf("write config: %w", err))
			}

			exportDir, err := paths.ResolveExportDir("", app.cfg.ExportDir)
			if err != nil {
				return sysErr(fmt.Errorf("resolve export dir: %w", err))
			}
			if err := os.MkdirAll(exportDir, 0o755); err != nil {
				return sysErr(fmt.Errorf("create export directory: %w", err))
			}
			app.log.Info("initialized", zap.String("config", path), zap.Bool("written", written), zap.String("exports", exportDir))

			if app.flags.jsonMode {
				return app.printJSON(map[string]string{"config": path, "export_dir": exportDir})
			}
			fmt.Fprintf(app.out, "Board initialized\nconfig: %s\nexports: %s\n", path, exportDir)
			return nil
		},
	}
}
