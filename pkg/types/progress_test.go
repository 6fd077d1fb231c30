package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name        string
		snap        Snapshot
		wantPercent float64
		wantRounded int
		wantRemain  int
		wantGoalMet bool
	}{
		{
			name:        "empty cycle",
			snap:        Snapshot{Mode: ModeTasbih, CycleSize: 100, GoalCycles: 10},
			wantRemain:  100,
			wantPercent: 0,
		},
		{
			name:        "third of a cycle",
			snap:        Snapshot{Mode: ModeTasbih, CycleCount: 11, CycleSize: 33, GoalCycles: 10},
			wantPercent: 100.0 / 3,
			wantRounded: 33,
			wantRemain:  22,
		},
		{
			name:        "clamped full cycle caps at 100",
			snap:        Snapshot{Mode: ModeTasbih, CycleCount: 50, CycleSize: 50, GoalCycles: 10},
			wantPercent: 100,
			wantRounded: 100,
			wantRemain:  0,
		},
		{
			name:        "goal met",
			snap:        Snapshot{Mode: ModeMantra, CycleCount: 1, CycleSize: 10, CompletedCycles: 3, GoalCycles: 3},
			wantPercent: 10,
			wantRounded: 10,
			wantRemain:  9,
			wantGoalMet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.snap.Progress()
			assert.InDelta(t, tt.wantPercent, p.Percent, 0.0001)
			assert.Equal(t, tt.wantRounded, p.Rounded())
			assert.Equal(t, tt.wantRemain, p.Remaining)
			assert.Equal(t, tt.wantGoalMet, p.GoalMet)
			assert.Equal(t, tt.snap.Mode.Label(), p.Label)
		})
	}
}

func TestAchievementText(t *testing.T) {
	assert.Equal(t, "One Tasbih completed! You've said 100 prayers.", AchievementText(ModeTasbih, 100))
	assert.Equal(t, "One Mantra cycle completed! You've chanted 108 times.", AchievementText(ModeMantra, 108))
	assert.Equal(t, "Spiritual goal achieved: 10 cycles completed!", GoalText(10))
}

func TestCycleText(t *testing.T) {
	p := Snapshot{Mode: ModeMantra, CycleCount: 8, CycleSize: 108, GoalCycles: 1}.Progress()
	assert.Equal(t, "8 of 108 chants (100 remaining)", p.CycleText())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("mantra")
	assert.NoError(t, err)
	assert.Equal(t, ModeMantra, m)
	assert.Equal(t, ModeTasbih, m.Other())

	_, err = ParseMode("rosary")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
