package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

const shellPrompt = "board> "

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands against one dashboard session",
		Long: "Read commands line by line and run them against the same dashboard, so\n" +
			"edits carry over from one command to the next. \"exit\" or end of input quits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Board(); err != nil {
				return err
			}
			return app.shell()
		},
	}
}

// shell runs the read-eval loop. Command errors are reported and the loop
// carries on.
func (a *App) shell() error {
	base := a.flags
	sc := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, shellPrompt)
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintln(a.errOut, "Error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "shell" {
			fmt.Fprintln(a.errOut, "Error: already in a shell")
			continue
		}

		a.flags = base
		root := NewRootCmd(a)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			a.recorder.Drain()
			fmt.Fprintln(a.errOut, "Error:", err)
		}
	}
}
