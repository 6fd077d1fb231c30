package types

import "time"

// Configuration bounds and defaults.
const (
	MinCycleSize = 10
	MaxCycleSize = 1000
	MinGoal      = 1
	MaxGoal      = 100

	DefaultCycleSize = 100
	DefaultGoal      = 10
)

// Counter holds the tally state: lifetime count, progress within the
// current cycle, completed cycles and configuration.
//
// Invariants: 0 <= CycleCount <= CycleSize, Count >= 0,
// CompletedCycles >= 0.
type Counter struct {
	Mode            Mode
	Count           int
	CycleCount      int
	CompletedCycles int
	CycleSize       int
	GoalCycles      int
	FeedbackEnabled bool
	UpdatedAt       time.Time

	observers []Observer
}

// NewCounter returns a counter with default configuration.
func NewCounter() *Counter {
	return &Counter{
		Mode:            ModeTasbih,
		CycleSize:       DefaultCycleSize,
		GoalCycles:      DefaultGoal,
		FeedbackEnabled: true,
	}
}

// Subscribe registers an observer for all subsequent events.
func (c *Counter) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Increment adds one to the count and to the current cycle, completing the
// cycle when it reaches CycleSize.
func (c *Counter) Increment() {
	c.Count++
	c.CycleCount++
	if c.CycleCount >= c.CycleSize {
		c.completeCycle()
	}
	c.changed(OpIncrement)
}

// completeCycle closes the current cycle and checks the goal.
func (c *Counter) completeCycle() {
	c.CompletedCycles++
	c.CycleCount = 0
	c.emit(EventCycleCompleted, OpIncrement)
	if c.CompletedCycles >= c.GoalCycles {
		c.emit(EventGoalReached, OpIncrement)
	}
}

// Decrement removes one from the count. It is a no-op when Count is 0 and
// reports whether the counter changed.
//
// Crossing back over a cycle boundary un-completes the last cycle and
// leaves CycleCount at CycleSize-1, using the current CycleSize. This is
// not an exact inverse of Increment.
func (c *Counter) Decrement() bool {
	if c.Count <= 0 {
		return false
	}
	c.Count--
	c.CycleCount--
	if c.CycleCount < 0 {
		c.CycleCount = 0
		if c.CompletedCycles > 0 {
			c.CompletedCycles--
			c.CycleCount = c.CycleSize - 1
		}
	}
	c.changed(OpDecrement)
	return true
}

// ResetCount zeroes the count, the cycle progress and the completed cycles.
// Configuration is preserved. Callers confirm with the user first.
func (c *Counter) ResetCount() {
	c.Count = 0
	c.CycleCount = 0
	c.CompletedCycles = 0
	c.changed(OpResetCount)
}

// ResetCycle zeroes the progress of the current cycle only.
// Callers confirm with the user first.
func (c *Counter) ResetCycle() {
	c.CycleCount = 0
	c.changed(OpResetCycle)
}

// SetCycleSize changes the cycle length. Returns an *OutOfRangeError and
// leaves the counter untouched when v is outside [MinCycleSize, MaxCycleSize].
func (c *Counter) SetCycleSize(v int) error {
	if err := checkRange("cycle size", v, MinCycleSize, MaxCycleSize); err != nil {
		return err
	}
	c.CycleSize = v
	if c.CycleCount > c.CycleSize {
		c.CycleCount = c.CycleSize
	}
	c.changed(OpSetCycleSize)
	return nil
}

// SetGoalCycles changes the goal. Returns an *OutOfRangeError and leaves the
// counter untouched when v is outside [MinGoal, MaxGoal].
func (c *Counter) SetGoalCycles(v int) error {
	if err := checkRange("goal cycles", v, MinGoal, MaxGoal); err != nil {
		return err
	}
	c.GoalCycles = v
	c.changed(OpSetGoalCycles)
	return nil
}

// SetFeedbackEnabled toggles haptic feedback.
func (c *Counter) SetFeedbackEnabled(on bool) {
	c.FeedbackEnabled = on
	c.changed(OpSetFeedback)
}

// SwitchMode changes the display mode.
func (c *Counter) SwitchMode(m Mode) {
	c.Mode = m
	c.changed(OpSwitchMode)
}

func (c *Counter) changed(op string) {
	c.UpdatedAt = time.Now().UTC()
	c.emit(EventChanged, op)
}

func (c *Counter) emit(kind EventKind, op string) {
	if len(c.observers) == 0 {
		return
	}
	e := Event{Kind: kind, Op: op, State: c.Snapshot()}
	for _, o := range c.observers {
		o.Observe(e)
	}
}
