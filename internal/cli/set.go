// Settings commands for the mala CLI.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/internal/session"
	"github.com/mesh-intelligence/mala/pkg/types"
)

// settingCommands maps setting names to dispatch commands.
var settingCommands = map[string]string{
	"cycle-size": session.CmdSetCycleSize,
	"beads":      session.CmdSetCycleSize,
	"goal":       session.CmdSetGoal,
	"feedback":   session.CmdSetFeedback,
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <cycle-size|goal|feedback> <value>",
		Short: "Change a counter setting",
		Long: fmt.Sprintf(`Change a counter setting.

  cycle-size  beads per cycle, %d to %d
  goal        target number of cycles, %d to %d
  feedback    on or off`, types.MinCycleSize, types.MaxCycleSize, types.MinGoal, types.MaxGoal),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := settingCommands[strings.ToLower(args[0])]
			if !ok {
				return userErr(fmt.Errorf("unknown setting %q (valid: cycle-size, goal, feedback)", args[0]))
			}
			return a.apply(cmd, session.Command{Name: name, Arg: args[1]})
		},
	}
}

func newModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "mode [tasbih|mantra]",
		Short:     "Show or switch the counting mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(types.ModeTasbih), string(types.ModeMantra)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.showMode(cmd)
			}
			return a.apply(cmd, session.Command{Name: session.CmdSwitchMode, Arg: args[0]})
		},
	}
}

// showMode prints the current counting mode.
func (a *app) showMode(cmd *cobra.Command) (err error) {
	sess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer a.release(sess, &err)

	mode := sess.Snapshot().Mode
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]types.Mode{"mode": mode})
	}
	fmt.Fprintln(cmd.OutOrStdout(), mode)
	return nil
}

// apply dispatches one settings command and reports the result.
func (a *app) apply(cmd *cobra.Command, c session.Command) (err error) {
	sess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer a.release(sess, &err)

	if _, err := dispatch(cmd.Context(), sess, c); err != nil {
		return err
	}
	return a.report(cmd, sess.Snapshot(), nil)
}
