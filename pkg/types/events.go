package types

// EventKind classifies a counter notification.
type EventKind string

// Event kinds. Cycle and goal events precede the changed event of the same
// operation.
const (
	EventChanged        EventKind = "changed"
	EventCycleCompleted EventKind = "cycle_completed"
	EventGoalReached    EventKind = "goal_reached"
)

// Operation names carried by events and recorded in history.
const (
	OpIncrement     = "increment"
	OpDecrement     = "decrement"
	OpResetCount    = "reset_count"
	OpResetCycle    = "reset_cycle"
	OpSetCycleSize  = "set_cycle_size"
	OpSetGoalCycles = "set_goal_cycles"
	OpSetFeedback   = "set_feedback"
	OpSwitchMode    = "switch_mode"
	OpImport        = "import"
)

// Event is delivered to observers after a counter mutation.
type Event struct {
	Kind  EventKind
	Op    string
	State Snapshot // counter state at the time of the event
}

// Observer receives counter events. Observers run synchronously on the
// goroutine that mutated the counter and must not mutate it.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}
