// Interactive session command for the mala CLI.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/mala/internal/session"
	"github.com/mesh-intelligence/mala/internal/tui"
)

var errNoTerminal = errors.New("session needs an interactive terminal")

func newSessionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Count interactively",
		Long: `Open an interactive counter.

  space, enter, +, k   count
  -, backspace, j      undo
  r, esc               reset all (asks first)
  c                    reset cycle (asks first)
  ctrl+r               reset cycle
  m                    switch mode
  v                    toggle feedback
  s, g                 set cycle size, goal
  q, ctrl+c            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return userErr(errNoTerminal)
			}

			haptics := a.haptics(os.Stdout)
			sess, err := a.openSession(cmd.Context(), session.WithObserver(haptics))
			if err != nil {
				return err
			}
			defer a.release(sess, &err)

			if err := tui.Run(cmd.Context(), sess, tui.WithPresser(haptics), tui.WithAltScreen()); err != nil {
				return sysErr(err)
			}
			return nil
		},
	}
}
