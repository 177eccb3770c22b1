package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/sectorboard/internal/paths"
)

// NewRootCmd creates the top-level "board" command bound to app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "board",
		Short: "Multi-sector project monitoring dashboard",
		Long: "Board tracks crop evaluations, monitoring indicators, data collection forms\n" +
			"and projects for agriculture, education and health programmes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.flushNotifications()
		},
	}
	root.SetIn(app.in)
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&app.flags.configDir, "config-dir", app.flags.configDir, "configuration directory (default: platform config dir)")
	pf.BoolVar(&app.flags.jsonMode, "json", app.flags.jsonMode, "output in JSON format")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", app.flags.verbose, "debug logging")

	root.AddCommand(
		newVersionCmd(app),
		newInitCmd(app),
		newSectorCmd(app),
		newProjectCmd(app),
		newTableCmd(app),
		newFormCmd(app),
		newExportCmd(app),
		newShellCmd(app),
	)
	return root
}

// setup resolves the configuration and logger once per App.
func (a *App) setup() error {
	if a.configDir != "" {
		return nil
	}
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configDir = dir

	if !a.logFixed {
		log, err := newLogger(cfg.LogLevel, a.flags.verbose)
		if err != nil {
			return sysErr(err)
		}
		a.log = log
		a.ownLog = true
	}
	a.log.Debug("config loaded", zap.String("dir", dir), zap.String("sector", cfg.Sector))
	return nil
}

// newLogger builds the console logger written to stderr.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}

// Run executes the CLI with args and returns the process exit code.
func (a *App) Run(args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	if a.ownLog {
		_ = a.log.Sync()
	}
	if err != nil {
		a.recorder.Drain()
		fmt.Fprintln(a.errOut, "Error:", err)
	}
	return exitCode(err)
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(NewApp().Run(os.Args[1:]))
}
