// Package feedback delivers best-effort haptic pulses on counter
// interaction. Terminals have no vibration motor, so the terminal
// implementation rings the bell.
package feedback

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/mesh-intelligence/mala/pkg/types"
)

// Pulse lengths.
const (
	PressPulse = 10 * time.Millisecond
	CountPulse = 20 * time.Millisecond
)

// Vibrator triggers a pulse of roughly d. Implementations may ignore d.
type Vibrator interface {
	Vibrate(d time.Duration) error
}

// Nop is a Vibrator for platforms without a vibration capability.
type Nop struct{}

// Vibrate does nothing.
func (Nop) Vibrate(time.Duration) error { return nil }

// Bell rings the terminal bell on w. A bell has no duration, so pulses
// shorter than CountPulse are dropped to keep one ring per count.
type Bell struct {
	W io.Writer
}

// Vibrate writes BEL.
func (b Bell) Vibrate(d time.Duration) error {
	if d < CountPulse {
		return nil
	}
	_, err := b.W.Write([]byte{'\a'})
	return err
}

// Detect returns a Bell for f when f is a terminal, otherwise Nop.
func Detect(f *os.File) Vibrator {
	if f != nil && term.IsTerminal(int(f.Fd())) {
		return Bell{W: f}
	}
	return Nop{}
}

// Haptics pulses on increment and decrement while feedback is enabled.
// It implements types.Observer.
type Haptics struct {
	v Vibrator
}

// NewHaptics wraps v. A nil v disables pulses.
func NewHaptics(v Vibrator) *Haptics {
	if v == nil {
		v = Nop{}
	}
	return &Haptics{v: v}
}

// Observe pulses after counting operations. Errors are dropped.
func (h *Haptics) Observe(e types.Event) {
	if e.Kind != types.EventChanged || !e.State.FeedbackEnabled {
		return
	}
	if e.Op == types.OpIncrement || e.Op == types.OpDecrement {
		_ = h.v.Vibrate(CountPulse)
	}
}

// Count pulses once for a counting action that bypasses Observe, such as
// a batch of increments applied in one go.
func (h *Haptics) Count(enabled bool) {
	if enabled {
		_ = h.v.Vibrate(CountPulse)
	}
}

// Press pulses for the press-down of a counting control.
func (h *Haptics) Press(enabled bool) {
	if enabled {
		_ = h.v.Vibrate(PressPulse)
	}
}
