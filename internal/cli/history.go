// History command for the mala CLI.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if limit < 1 {
				return userErr(fmt.Errorf("limit must be positive, got %d", limit))
			}
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer a.release(sess, &err)

			entries, err := sess.History(cmd.Context(), limit)
			if err != nil {
				return sysErr(fmt.Errorf("read history: %w", err))
			}
			if a.flags.jsonMode {
				if entries == nil {
					entries = []types.HistoryEntry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOPERATION\tCOUNT\tCYCLE\tCOMPLETED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Operation, e.Count, e.Cycle, e.Completed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}
