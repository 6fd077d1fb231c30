package feedback

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/mala/pkg/types"
)

type fakeVibrator struct {
	pulses []time.Duration
	err    error
}

func (f *fakeVibrator) Vibrate(d time.Duration) error {
	f.pulses = append(f.pulses, d)
	return f.err
}

func TestHapticsPulsesOnCounting(t *testing.T) {
	v := &fakeVibrator{}
	c := types.NewCounter()
	c.Subscribe(NewHaptics(v))

	c.Increment()
	c.Decrement()
	c.Decrement() // no-op at zero
	c.ResetCount()
	c.SwitchMode(types.ModeMantra)

	assert.Equal(t, []time.Duration{CountPulse, CountPulse}, v.pulses)
}

func TestHapticsRespectsToggle(t *testing.T) {
	v := &fakeVibrator{}
	c := types.NewCounter()
	c.Subscribe(NewHaptics(v))

	c.SetFeedbackEnabled(false)
	c.Increment()

	assert.Empty(t, v.pulses)
}

func TestHapticsIgnoresErrors(t *testing.T) {
	v := &fakeVibrator{err: errors.New("no motor")}
	h := NewHaptics(v)

	assert.NotPanics(t, func() {
		h.Observe(types.Event{Kind: types.EventChanged, Op: types.OpIncrement, State: types.DefaultSnapshot()})
		h.Press(true)
	})
	assert.Len(t, v.pulses, 2)
}

func TestPress(t *testing.T) {
	v := &fakeVibrator{}
	h := NewHaptics(v)

	h.Press(false)
	h.Press(true)

	assert.Equal(t, []time.Duration{PressPulse}, v.pulses)
}

func TestCount(t *testing.T) {
	tests := []struct {
		name    string
		enabled []bool
		want    []time.Duration
	}{
		{name: "enabled", enabled: []bool{true}, want: []time.Duration{CountPulse}},
		{name: "disabled", enabled: []bool{false}},
		{name: "one pulse per call", enabled: []bool{true, false, true}, want: []time.Duration{CountPulse, CountPulse}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVibrator{}
			h := NewHaptics(v)
			for _, on := range tt.enabled {
				h.Count(on)
			}
			assert.Equal(t, tt.want, v.pulses)
		})
	}
}

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	b := Bell{W: &buf}
	assert.NoError(t, b.Vibrate(PressPulse))
	assert.Empty(t, buf.String())
	assert.NoError(t, b.Vibrate(CountPulse))
	assert.Equal(t, "\a", buf.String())
}

func TestDetectNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()

	assert.Equal(t, Nop{}, Detect(f))
	assert.Equal(t, Nop{}, Detect(nil))
}

func TestNewHapticsNil(t *testing.T) {
	h := NewHaptics(nil)
	assert.NotPanics(t, func() { h.Press(true) })
}
