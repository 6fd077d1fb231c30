// Counting commands for the mala CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/internal/session"
)

// maxRepeat bounds the repeat argument of inc and dec.
const maxRepeat = 100000

func newIncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inc [n]",
		Short: "Count one bead, or n beads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repeat(cmd, args, session.CmdIncrement)
		},
	}
}

func newDecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dec [n]",
		Short: "Undo one bead, or n beads",
		Long:  "Undo counted beads. Undoing at zero does nothing.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repeat(cmd, args, session.CmdDecrement)
		},
	}
}

// repeat dispatches name n times, stopping early once a decrement no longer
// changes the counter. A batch pulses once, not once per bead.
func (a *app) repeat(cmd *cobra.Command, args []string, name string) (err error) {
	n := 1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 || v > maxRepeat {
			return userErr(fmt.Errorf("count must be a whole number between 1 and %d, got %q", maxRepeat, args[0]))
		}
		n = v
	}

	sess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer a.release(sess, &err)

	var (
		notes   []string
		changed bool
	)
	for i := 0; i < n; i++ {
		res, err := dispatch(cmd.Context(), sess, session.Command{Name: name})
		if err != nil {
			return err
		}
		notes = append(notes, notifications(res.Events)...)
		if !res.Changed {
			break
		}
		changed = true
	}

	snap := sess.Snapshot()
	if changed {
		a.haptics(os.Stderr).Count(snap.FeedbackEnabled)
	}
	return a.report(cmd, snap, notes)
}
