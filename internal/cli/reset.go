// Reset commands for the mala CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/internal/session"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the count, the cycle and completed cycles",
		Long:  "Reset the lifetime count, the current cycle and the completed cycles. Settings are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.confirmed(cmd, yes, "Reset all counts? Completed cycles are cleared too.", session.CmdResetCount)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newResetCycleCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-cycle",
		Short: "Reset progress within the current cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.confirmed(cmd, yes, "Reset the current cycle?", session.CmdResetCycle)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirmed dispatches name once the user agreed, either by flag or prompt.
func (a *app) confirmed(cmd *cobra.Command, yes bool, prompt, name string) (err error) {
	if !yes && !confirm(cmd, prompt) {
		fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
		return userErr(fmt.Errorf("%s: %w", name, errNotConfirmed))
	}

	sess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer a.release(sess, &err)

	if _, err := dispatch(cmd.Context(), sess, session.Command{Name: name}); err != nil {
		return err
	}
	return a.report(cmd, sess.Snapshot(), nil)
}
