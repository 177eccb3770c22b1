package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sectorboard/internal/export"
	"github.com/mesh-intelligence/sectorboard/internal/paths"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

const exportAll = "all"

func newExportCmd(app *App) *cobra.Command {
	var (
		format, dir, file string
		wait              time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export <table>... | all",
		Short: "Write tables to an xlsx workbook, a JSONL file or a SQLite database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			if format == "" {
				format = app.cfg.ExportFormat
			}
			if !types.IsValidExportFormat(format) {
				return fmt.Errorf("%q: %w", format, types.ErrExportFormatUnknown)
			}

			names := args
			if len(args) == 1 && args[0] == exportAll {
				names = types.StandardTableNames
			}
			sheets := make([]export.Sheet, 0, len(names))
			for _, name := range names {
				t, err := d.Table(name)
				if err != nil {
					return err
				}
				sheets = append(sheets, export.FromTable(name, t))
			}

			path := file
			if path == "" {
				outDir, err := paths.ResolveExportDir(dir, app.cfg.ExportDir)
				if err != nil {
					return sysErr(fmt.Errorf("resolve export dir: %w", err))
				}
				module := names[0]
				if len(names) > 1 {
					module = "board"
				}
				path = filepath.Join(outDir, export.FileName(module, format, app.now()))
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()
			if err := export.Write(ctx, path, format, sheets); err != nil {
				if errors.Is(err, export.ErrLocked) {
					return err
				}
				return sysErr(err)
			}
			app.log.Info("exported", zap.String("path", path), zap.String("format", format), zap.Int("sheets", len(sheets)))
			d.Notifier().Notify(types.LevelSuccess, "Export complete")

			if app.flags.jsonMode {
				return app.printJSON(map[string]any{"path": path, "format": format, "tables": names})
			}
			fmt.Fprintf(app.out, "Exported %d tables to %s\n", len(sheets), path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "xlsx, jsonl or sqlite (default from config)")
	f.StringVar(&dir, "out", "", "export directory (default from config)")
	f.StringVar(&file, "file", "", "exact output path, overrides --out")
	f.DurationVar(&wait, "wait", 5*time.Second, "how long to wait for a locked destination")
	return cmd
}
