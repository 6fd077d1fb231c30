// Show command for the mala CLI.
package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/internal/theme"
	"github.com/mesh-intelligence/mala/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer a.release(sess, &err)

			snap := sess.Snapshot()
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), stateOutput{State: snap, Progress: snap.Progress()})
			}
			printCounter(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

// printCounter renders the counter with colors when w is a terminal.
func printCounter(w io.Writer, snap types.Snapshot) {
	out := termenv.NewOutput(w)
	p := snap.Progress()

	accent := out.Color(theme.Accent)
	muted := out.Color(theme.Muted)

	filled, empty := theme.Bar(p.Percent, theme.BarWidth)
	bar := out.String(filled).Foreground(accent).String() +
		out.String(empty).Foreground(muted).String()

	fmt.Fprintln(w, out.String(p.Label).Foreground(accent).Bold())
	fmt.Fprintln(w, out.String(fmt.Sprintf("%d", p.Count)).Bold())
	fmt.Fprintf(w, "%s %d%%\n", bar, p.Rounded())
	fmt.Fprintln(w, p.CycleText())
	goal := fmt.Sprintf("Completed cycles: %d / %d", p.CompletedCycles, p.GoalCycles)
	if p.GoalMet {
		fmt.Fprintln(w, out.String(goal).Foreground(out.Color(theme.Success)))
	} else {
		fmt.Fprintln(w, goal)
	}
	fmt.Fprintln(w, out.String("Feedback: "+theme.OnOff(snap.FeedbackEnabled)).Foreground(muted))
}
