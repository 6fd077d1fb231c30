package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mala/pkg/types"
)

// Command names accepted by Dispatch.
const (
	CmdIncrement      = "increment"
	CmdDecrement      = "decrement"
	CmdResetCount     = "reset"
	CmdResetCycle     = "reset-cycle"
	CmdSetCycleSize   = "cycle-size"
	CmdSetGoal        = "goal"
	CmdSetFeedback    = "feedback"
	CmdSwitchMode     = "mode"
	CmdToggleMode     = "toggle-mode"
	CmdToggleFeedback = "toggle-feedback"
)

// Dispatch errors.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Command is one input event mapped to a counter operation.
type Command struct {
	Name string
	Arg  string
}

// Result describes the outcome of a dispatched command. State and Progress
// are taken under the same lock as the command, so they describe the same
// moment even when other commands run concurrently.
type Result struct {
	Changed  bool
	Events   []types.Event // cycle and goal notifications, in order
	State    types.Snapshot
	Progress types.Progress
}

// CycleCompleted reports whether the command finished a cycle.
func (r Result) CycleCompleted() bool {
	return r.has(types.EventCycleCompleted)
}

// GoalReached reports whether the command reached the goal.
func (r Result) GoalReached() bool {
	return r.has(types.EventGoalReached)
}

func (r Result) has(kind types.EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

type handler func(c *types.Counter, arg string) (bool, error)

// dispatchTable maps command names to counter operations. Confirmation of
// resets happens before Dispatch is called.
var dispatchTable = map[string]handler{
	CmdIncrement: func(c *types.Counter, _ string) (bool, error) {
		c.Increment()
		return true, nil
	},
	CmdDecrement: func(c *types.Counter, _ string) (bool, error) {
		return c.Decrement(), nil
	},
	CmdResetCount: func(c *types.Counter, _ string) (bool, error) {
		c.ResetCount()
		return true, nil
	},
	CmdResetCycle: func(c *types.Counter, _ string) (bool, error) {
		c.ResetCycle()
		return true, nil
	},
	CmdSetCycleSize: func(c *types.Counter, arg string) (bool, error) {
		v, err := parseInt(arg)
		if err != nil {
			return false, err
		}
		return true, c.SetCycleSize(v)
	},
	CmdSetGoal: func(c *types.Counter, arg string) (bool, error) {
		v, err := parseInt(arg)
		if err != nil {
			return false, err
		}
		return true, c.SetGoalCycles(v)
	},
	CmdSetFeedback: func(c *types.Counter, arg string) (bool, error) {
		on, err := parseBool(arg)
		if err != nil {
			return false, err
		}
		c.SetFeedbackEnabled(on)
		return true, nil
	},
	CmdSwitchMode: func(c *types.Counter, arg string) (bool, error) {
		m, err := types.ParseMode(strings.ToLower(strings.TrimSpace(arg)))
		if err != nil {
			return false, err
		}
		c.SwitchMode(m)
		return true, nil
	},
	CmdToggleMode: func(c *types.Counter, _ string) (bool, error) {
		c.SwitchMode(c.Mode.Other())
		return true, nil
	},
	CmdToggleFeedback: func(c *types.Counter, _ string) (bool, error) {
		c.SetFeedbackEnabled(!c.FeedbackEnabled)
		return true, nil
	},
}

// Dispatch runs one command against the counter under the session lock.
// Out-of-range values return an error matching types.ErrOutOfRange and leave
// the state unchanged.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	h, ok := dispatchTable[cmd.Name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	changed, err := h(s.counter, cmd.Arg)
	snap := s.counter.Snapshot()
	res := Result{
		Events:   s.pending,
		State:    snap,
		Progress: snap.Progress(),
	}
	s.pending = nil
	if err != nil {
		return res, err
	}
	res.Changed = changed
	return res, nil
}

// Commands returns the names accepted by Dispatch.
func Commands() []string {
	names := make([]string, 0, len(dispatchTable))
	for name := range dispatchTable {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func parseInt(arg string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidArgument, arg)
	}
	return v, nil
}

func parseBool(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not on or off", ErrInvalidArgument, arg)
}
