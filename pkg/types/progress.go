package types

import (
	"fmt"
	"math"
	"time"
)

// Display durations for transient feedback in interactive views.
const (
	PulseDuration       = 500 * time.Millisecond
	AchievementDuration = 3 * time.Second
	GoalDuration        = 5 * time.Second
)

// Progress is the view model read after every mutation.
type Progress struct {
	Mode            Mode    `json:"mode"`
	Label           string  `json:"label"`
	Count           int     `json:"count"`
	CycleCount      int     `json:"cycleCount"`
	CycleSize       int     `json:"cycleSize"`
	Remaining       int     `json:"remaining"`
	Percent         float64 `json:"percent"`
	CompletedCycles int     `json:"completedCycles"`
	GoalCycles      int     `json:"goalCycles"`
	GoalMet         bool    `json:"goalMet"`
}

// Progress computes the view model from the current state.
func (c *Counter) Progress() Progress {
	return c.Snapshot().Progress()
}

// Progress computes the view model for s.
func (s Snapshot) Progress() Progress {
	p := Progress{
		Mode:            s.Mode,
		Label:           s.Mode.Label(),
		Count:           s.Count,
		CycleCount:      s.CycleCount,
		CycleSize:       s.CycleSize,
		Remaining:       s.CycleSize - s.CycleCount,
		CompletedCycles: s.CompletedCycles,
		GoalCycles:      s.GoalCycles,
		GoalMet:         s.GoalCycles > 0 && s.CompletedCycles >= s.GoalCycles,
	}
	if s.CycleSize > 0 {
		p.Percent = math.Min(100, float64(s.CycleCount)/float64(s.CycleSize)*100)
	}
	return p
}

// Rounded returns the percentage rounded for display.
func (p Progress) Rounded() int {
	return int(math.Round(p.Percent))
}

// CycleText describes progress within the current cycle.
func (p Progress) CycleText() string {
	unit := "prayers"
	if p.Mode == ModeMantra {
		unit = "chants"
	}
	return fmt.Sprintf("%d of %d %s (%d remaining)", p.CycleCount, p.CycleSize, unit, p.Remaining)
}

// AchievementText is shown briefly when a cycle completes.
func AchievementText(m Mode, cycleSize int) string {
	if m == ModeMantra {
		return fmt.Sprintf("One Mantra cycle completed! You've chanted %d times.", cycleSize)
	}
	return fmt.Sprintf("One Tasbih completed! You've said %d prayers.", cycleSize)
}

// GoalText is shown briefly when the goal is reached.
func GoalText(completed int) string {
	return fmt.Sprintf("Spiritual goal achieved: %d cycles completed!", completed)
}
