// Stats command for the mala CLI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/mala/internal/sqlite"
	"github.com/mesh-intelligence/mala/pkg/types"
)

var errStatsUnsupported = errors.New("stats needs the sqlite backend")

// dailyTotaler is implemented by backends that can aggregate history.
type dailyTotaler interface {
	DailyTotals(ctx context.Context, days int) ([]sqlite.DayTotal, error)
}

type statsOutput struct {
	Days   int               `json:"days"`
	State  types.Snapshot    `json:"state"`
	Totals []sqlite.DayTotal `json:"totals"`
}

func newStatsCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize counting per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if days < 1 || days > 366 {
				return userErr(fmt.Errorf("days must be between 1 and 366, got %d", days))
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return sysErr(err)
			}
			defer a.release(store, &err)

			dt, ok := store.(dailyTotaler)
			if !ok {
				return userErr(errStatsUnsupported)
			}
			totals, err := dt.DailyTotals(cmd.Context(), days)
			if err != nil {
				return sysErr(fmt.Errorf("daily totals: %w", err))
			}
			snap, err := store.Load(cmd.Context())
			if err != nil {
				snap = types.DefaultSnapshot()
			}

			if a.flags.jsonMode {
				if totals == nil {
					totals = []sqlite.DayTotal{}
				}
				return writeJSON(cmd.OutOrStdout(), statsOutput{Days: days, State: snap, Totals: totals})
			}
			return printStats(cmd.OutOrStdout(), statsMarkdown(days, snap, totals))
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days to include")
	return cmd
}

// statsMarkdown builds the report as a markdown document.
func statsMarkdown(days int, snap types.Snapshot, totals []sqlite.DayTotal) string {
	p := snap.Progress()
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Label)
	fmt.Fprintf(&b, "- **Lifetime count:** %d\n", p.Count)
	fmt.Fprintf(&b, "- **Current cycle:** %s\n", p.CycleText())
	fmt.Fprintf(&b, "- **Completed cycles:** %d of %d\n\n", p.CompletedCycles, p.GoalCycles)
	fmt.Fprintf(&b, "## Last %d days\n\n", days)

	if len(totals) == 0 {
		b.WriteString("No activity.\n")
		return b.String()
	}
	b.WriteString("| Day | Counted | Undone | Cycles |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	var inc, dec, cycles int
	for _, t := range totals {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", t.Day, t.Increments, t.Decrements, t.CyclesCompleted)
		inc += t.Increments
		dec += t.Decrements
		cycles += t.CyclesCompleted
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%d** | **%d** |\n", inc, dec, cycles)
	return b.String()
}

// printStats renders markdown with glamour when w is a terminal and prints
// it raw otherwise.
func printStats(w io.Writer, md string) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err == nil {
			out, err := r.Render(md)
			if err == nil {
				_, err = io.WriteString(w, out)
				return err
			}
		}
	}
	_, err := io.WriteString(w, md)
	return err
}
