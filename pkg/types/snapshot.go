package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotKey is the namespace the snapshot is stored under.
const SnapshotKey = "divineCounterData"

// Snapshot is the persisted form of a Counter. Field names follow the
// browser application's localStorage record so exported data round-trips.
type Snapshot struct {
	Mode            Mode      `json:"mode" yaml:"mode"`
	Count           int       `json:"count" yaml:"count"`
	CycleCount      int       `json:"cycleCount" yaml:"cycleCount"`
	CompletedCycles int       `json:"completedCycles" yaml:"completedCycles"`
	CycleSize       int       `json:"beadsPerCycle" yaml:"beadsPerCycle"`
	GoalCycles      int       `json:"goalCycles" yaml:"goalCycles"`
	FeedbackEnabled bool      `json:"vibrationEnabled" yaml:"vibrationEnabled"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// DefaultSnapshot returns the snapshot of a fresh counter.
func DefaultSnapshot() Snapshot {
	return NewCounter().Snapshot()
}

// Snapshot captures the counter's current state.
func (c *Counter) Snapshot() Snapshot {
	return Snapshot{
		Mode:            c.Mode,
		Count:           c.Count,
		CycleCount:      c.CycleCount,
		CompletedCycles: c.CompletedCycles,
		CycleSize:       c.CycleSize,
		GoalCycles:      c.GoalCycles,
		FeedbackEnabled: c.FeedbackEnabled,
		UpdatedAt:       c.UpdatedAt,
	}
}

// Restore replaces the counter state with s after sanitizing it. Observers
// are kept and not notified.
func (c *Counter) Restore(s Snapshot) {
	s = s.Sanitize()
	c.Mode = s.Mode
	c.Count = s.Count
	c.CycleCount = s.CycleCount
	c.CompletedCycles = s.CompletedCycles
	c.CycleSize = s.CycleSize
	c.GoalCycles = s.GoalCycles
	c.FeedbackEnabled = s.FeedbackEnabled
	c.UpdatedAt = s.UpdatedAt
}

// Sanitize returns a copy of s that satisfies the counter invariants.
// Out-of-range configuration falls back to defaults, negative counters
// become zero and CycleCount is clamped to CycleSize.
func (s Snapshot) Sanitize() Snapshot {
	if !s.Mode.Valid() {
		s.Mode = ModeTasbih
	}
	if checkRange("cycle size", s.CycleSize, MinCycleSize, MaxCycleSize) != nil {
		s.CycleSize = DefaultCycleSize
	}
	if checkRange("goal cycles", s.GoalCycles, MinGoal, MaxGoal) != nil {
		s.GoalCycles = DefaultGoal
	}
	s.Count = max(s.Count, 0)
	s.CompletedCycles = max(s.CompletedCycles, 0)
	s.CycleCount = min(max(s.CycleCount, 0), s.CycleSize)
	return s
}

// DecodeSnapshot parses a persisted snapshot. Fields absent from data keep
// their default values. On malformed input it returns the defaults together
// with the decode error; callers treat the error as informational.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	s := DefaultSnapshot()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSnapshot(), fmt.Errorf("decoding snapshot: %w", err)
	}
	return s.Sanitize(), nil
}

// Encode serializes the snapshot as JSON.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}
