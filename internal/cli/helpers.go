// Shared helpers for mala CLI commands.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/internal/feedback"
	"github.com/mesh-intelligence/mala/internal/redis"
	"github.com/mesh-intelligence/mala/internal/session"
	"github.com/mesh-intelligence/mala/internal/sqlite"
	"github.com/mesh-intelligence/mala/pkg/types"
)

var errNotConfirmed = errors.New("not confirmed")

// openStore opens the configured backend. The caller must Close it.
func (a *app) openStore(ctx context.Context) (types.Store, error) {
	switch a.cfg.Backend {
	case types.BackendRedis:
		s := redis.New(a.cfg.Redis)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("connect redis %s: %w", a.cfg.Redis.Addr, err)
		}
		return s, nil
	default:
		b, err := sqlite.Open(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("attach backend: %w", err)
		}
		return b, nil
	}
}

// openSession opens the store and loads the counter. The caller must Close
// the session.
func (a *app) openSession(ctx context.Context, opts ...session.Option) (*session.Session, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, sysErr(err)
	}
	opts = append([]session.Option{session.WithLogger(a.log)}, opts...)
	return session.Open(ctx, store, opts...), nil
}

// release closes c when a command finishes. A close failure means pending
// writes may be lost, so it is logged and becomes the command's error
// unless an earlier one is already set.
func (a *app) release(c io.Closer, errp *error) {
	cerr := c.Close()
	if cerr == nil {
		return
	}
	a.log.Error("closing store", "error", cerr)
	if *errp == nil {
		*errp = sysErr(fmt.Errorf("close store: %w", cerr))
	}
}

// haptics returns the pulse source for commands writing to f.
func (a *app) haptics(f *os.File) *feedback.Haptics {
	if a.vibrator != nil {
		return feedback.NewHaptics(a.vibrator)
	}
	return feedback.NewHaptics(feedback.Detect(f))
}

// dispatch runs one command and classifies its error for the exit code.
func dispatch(ctx context.Context, sess *session.Session, cmd session.Command) (session.Result, error) {
	res, err := sess.Dispatch(ctx, cmd)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, types.ErrOutOfRange) ||
		errors.Is(err, types.ErrInvalidMode) ||
		errors.Is(err, session.ErrInvalidArgument) ||
		errors.Is(err, session.ErrUnknownCommand) {
		return res, userErr(err)
	}
	return res, sysErr(err)
}

// confirm asks prompt on stderr and reads a y/N answer from stdin.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// stateOutput is the JSON shape of commands that report the counter.
type stateOutput struct {
	State         types.Snapshot `json:"state"`
	Progress      types.Progress `json:"progress"`
	Notifications []string       `json:"notifications,omitempty"`
}

// notifications renders cycle and goal events as user-facing text.
func notifications(events []types.Event) []string {
	var out []string
	for _, e := range events {
		switch e.Kind {
		case types.EventCycleCompleted:
			out = append(out, types.AchievementText(e.State.Mode, e.State.CycleSize))
		case types.EventGoalReached:
			out = append(out, types.GoalText(e.State.CompletedCycles))
		}
	}
	return out
}

// report prints the counter after a mutation.
func (a *app) report(cmd *cobra.Command, snap types.Snapshot, notes []string) error {
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), stateOutput{State: snap, Progress: snap.Progress(), Notifications: notes})
	}
	w := cmd.OutOrStdout()
	for _, n := range notes {
		fmt.Fprintln(w, n)
	}
	p := snap.Progress()
	fmt.Fprintf(w, "%s: %d  ·  %s  ·  cycles %d/%d\n", p.Label, p.Count, p.CycleText(), p.CompletedCycles, p.GoalCycles)
	return nil
}
