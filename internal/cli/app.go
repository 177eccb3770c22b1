// Package cli implements the board command-line interface.
//
// Every invocation seeds a fresh dashboard; edits live only for the process.
// The shell command keeps one App across many command lines so a session can
// build up state the way the dashboard screens do.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/sectorboard/internal/dashboard"
	"github.com/mesh-intelligence/sectorboard/internal/formbuilder"
	"github.com/mesh-intelligence/sectorboard/internal/notify"
	"github.com/mesh-intelligence/sectorboard/internal/render"
	"github.com/mesh-intelligence/sectorboard/internal/seed"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	jsonMode  bool
	verbose   bool
}

// App carries the state shared by every command of one process.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	flags     rootFlags
	cfg       types.Config
	configDir string
	log       *zap.Logger
	logFixed  bool // supplied by WithLogger
	ownLog    bool // built by setup, synced on exit

	board    *dashboard.Dashboard
	recorder *notify.Recorder
	builder  *formbuilder.Builder
}

// AppOption configures an App.
type AppOption func(*App)

// WithIO sets the streams commands read from and write to.
func WithIO(in io.Reader, out, errOut io.Writer) AppOption {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithLogger supplies a logger instead of building one from the config.
func WithLogger(log *zap.Logger) AppOption {
	return func(a *App) { a.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) { a.now = now }
}

// NewApp returns an App writing to the process streams by default.
func NewApp(opts ...AppOption) *App {
	a := &App{
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
		now:      time.Now,
		recorder: &notify.Recorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logFixed = a.log != nil
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// Board returns the session dashboard, seeding it on first use.
func (a *App) Board() (*dashboard.Dashboard, error) {
	if a.board != nil {
		return a.board, nil
	}
	data, err := seed.Load()
	if err != nil {
		return nil, sysErr(fmt.Errorf("load seed data: %w", err))
	}
	d, err := dashboard.New(data,
		dashboard.WithNotifier(notify.Tee{notify.NewLogger(a.log), a.recorder}),
		dashboard.WithClock(a.now),
		dashboard.WithSector(a.cfg.Sector),
	)
	if err != nil {
		return nil, sysErr(fmt.Errorf("build dashboard: %w", err))
	}
	a.board = d
	a.log.Debug("dashboard seeded",
		zap.String("sector", d.Sectors().CurrentID()),
		zap.Int("projects", d.Projects().Len()))
	return d, nil
}

// Builder returns the session form builder.
func (a *App) Builder() *formbuilder.Builder {
	if a.builder == nil {
		a.builder = formbuilder.New(formbuilder.WithNotifier(notify.Tee{notify.NewLogger(a.log), a.recorder}))
	}
	return a.builder
}

func (a *App) renderer() *render.Renderer { return render.New(a.out) }

// flushNotifications prints the notifications raised by the last command.
func (a *App) flushNotifications() error {
	items := a.recorder.Drain()
	if a.flags.jsonMode || len(items) == 0 {
		return nil
	}
	return a.renderer().Notifications(items)
}

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func sysErr(err error) error { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error to the process exit code. Anything not marked as a
// system error is the user's to fix.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
