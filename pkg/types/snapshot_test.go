package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Snapshot
		wantErr bool
	}{
		{
			name: "full record",
			data: `{"mode":"mantra","count":250,"cycleCount":50,"completedCycles":2,"beadsPerCycle":100,"goalCycles":3,"vibrationEnabled":false}`,
			want: Snapshot{Mode: ModeMantra, Count: 250, CycleCount: 50, CompletedCycles: 2, CycleSize: 100, GoalCycles: 3},
		},
		{
			name: "missing fields keep defaults",
			data: `{"count":7,"cycleCount":7}`,
			want: Snapshot{Mode: ModeTasbih, Count: 7, CycleCount: 7, CycleSize: DefaultCycleSize, GoalCycles: DefaultGoal, FeedbackEnabled: true},
		},
		{
			name: "unknown fields ignored",
			data: `{"count":1,"cycleCount":1,"theme":"dark"}`,
			want: Snapshot{Mode: ModeTasbih, Count: 1, CycleCount: 1, CycleSize: DefaultCycleSize, GoalCycles: DefaultGoal, FeedbackEnabled: true},
		},
		{
			name:    "corrupt record falls back to defaults",
			data:    `{"count":`,
			want:    DefaultSnapshot(),
			wantErr: true,
		},
		{
			name:    "wrong field type falls back to defaults",
			data:    `{"count":"many"}`,
			want:    DefaultSnapshot(),
			wantErr: true,
		},
		{
			name: "out of range configuration is sanitized",
			data: `{"count":5,"cycleCount":500,"beadsPerCycle":5000,"goalCycles":0,"mode":"rosary"}`,
			want: Snapshot{Mode: ModeTasbih, Count: 5, CycleCount: DefaultCycleSize, CycleSize: DefaultCycleSize, GoalCycles: DefaultGoal, FeedbackEnabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSnapshot([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeNegativeCounters(t *testing.T) {
	s := Snapshot{Mode: ModeTasbih, Count: -3, CycleCount: -1, CompletedCycles: -2, CycleSize: 50, GoalCycles: 4}
	got := s.Sanitize()
	assert.Equal(t, 0, got.Count)
	assert.Equal(t, 0, got.CycleCount)
	assert.Equal(t, 0, got.CompletedCycles)
	assert.Equal(t, 50, got.CycleSize)
	assert.Equal(t, 4, got.GoalCycles)
}

func TestRestoreKeepsObservers(t *testing.T) {
	c := NewCounter()
	rec := &recorder{}
	c.Subscribe(rec)

	c.Restore(Snapshot{Mode: ModeMantra, Count: 12, CycleCount: 2, CompletedCycles: 1, CycleSize: 10, GoalCycles: 2})
	assert.Empty(t, rec.events, "restore does not notify")

	c.Increment()
	require.NotEmpty(t, rec.events)
	assert.Equal(t, 13, c.Count)
	assert.Equal(t, ModeMantra, c.Mode)
}

func TestSnapshotEncodeUsesStoredFieldNames(t *testing.T) {
	data, err := DefaultSnapshot().Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"beadsPerCycle":100`)
	assert.Contains(t, string(data), `"vibrationEnabled":true`)
	assert.NotContains(t, string(data), "updatedAt")
}
