package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mala/internal/session"
	"github.com/mesh-intelligence/mala/internal/theme"
	"github.com/mesh-intelligence/mala/pkg/types"
)

type memStore struct {
	mu    sync.Mutex
	snap  *types.Snapshot
	saves int
}

func (s *memStore) Load(context.Context) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return types.Snapshot{}, types.ErrSnapshotNotFound
	}
	return *s.snap, nil
}

func (s *memStore) Save(_ context.Context, snap types.Snapshot, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &snap
	s.saves++
	return nil
}

func (s *memStore) History(context.Context, int) ([]types.HistoryEntry, error) { return nil, nil }
func (s *memStore) Close() error                                             { return nil }

type countingPresser struct {
	presses []bool
}

func (p *countingPresser) Press(enabled bool) { p.presses = append(p.presses, enabled) }

func newTestModel(t *testing.T) (model, *session.Session) {
	t.Helper()
	sess := session.Open(context.Background(), &memStore{})
	return newModel(context.Background(), sess, nil), sess
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m model, msgs ...tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func TestCountingKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want int
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, 1},
		{"plus", runes("+"), 1},
		{"k", runes("k"), 1},
		{"unbound", runes("x"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sess := newTestModel(t)
			m, _ = send(m, tt.key)
			assert.Equal(t, tt.want, m.state.Count)
			assert.Equal(t, tt.want, sess.Snapshot().Count)
		})
	}
}

func TestDecrementKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("-"), runes("j"), {Type: tea.KeyBackspace}} {
		m, _ := newTestModel(t)
		m, _ = send(m, runes("+"), runes("+"), key)
		assert.Equal(t, 1, m.state.Count, key.String())
	}
}

func TestIncrementPulses(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := send(m, runes("+"))
	assert.True(t, m.pulsing)
	assert.NotNil(t, cmd)

	m, _ = send(m, pulseMsg{Seq: m.pulseSeq - 1})
	assert.True(t, m.pulsing, "stale pulse expiry ignored")
	m, _ = send(m, pulseMsg{Seq: m.pulseSeq})
	assert.False(t, m.pulsing)
}

func TestPresser(t *testing.T) {
	p := &countingPresser{}
	sess := session.Open(context.Background(), &memStore{})
	m := newModel(context.Background(), sess, p)

	m, _ = send(m, runes("+"), runes("v"), runes("-"), runes("m"))

	assert.Equal(t, []bool{true, false}, p.presses)
}

func TestResetConfirmation(t *testing.T) {
	m, sess := newTestModel(t)
	m, _ = send(m, runes("+"), runes("+"), runes("+"))

	m, _ = send(m, runes("r"))
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "[y/N]")

	m, _ = send(m, runes("n"))
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, 3, sess.Snapshot().Count)
	assert.Contains(t, m.View(), "Reset cancelled")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEscape})
	require.Equal(t, modeConfirm, m.mode)
	m, _ = send(m, runes("y"))
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, 0, sess.Snapshot().Count)
}

func TestResetCycleKeys(t *testing.T) {
	m, sess := newTestModel(t)
	m, _ = send(m, runes("+"), runes("+"))

	m, _ = send(m, runes("c"), runes("Y"))
	assert.Equal(t, 0, sess.Snapshot().CycleCount)
	assert.Equal(t, 2, sess.Snapshot().Count)

	m, _ = send(m, runes("+"), tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, 0, m.state.CycleCount)
	assert.Equal(t, 3, m.state.Count)
}

func TestNumericInput(t *testing.T) {
	m, sess := newTestModel(t)

	m, _ = send(m, runes("s"))
	require.Equal(t, modeInput, m.mode)
	m, _ = send(m, runes("3"), runes("a"), runes("4"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("3"))
	assert.Contains(t, m.View(), "Beads per cycle: 33_")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, 33, sess.Snapshot().CycleSize)

	m, _ = send(m, runes("g"), runes("7"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 7, sess.Snapshot().GoalCycles)

	m, _ = send(m, runes("g"), runes("9"), tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, 7, sess.Snapshot().GoalCycles)
}

func TestNumericInputOutOfRange(t *testing.T) {
	m, sess := newTestModel(t)

	m, _ = send(m, runes("s"), runes("5"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, types.DefaultCycleSize, sess.Snapshot().CycleSize)
	assert.Equal(t, statusErr, m.statusKind)
	assert.Contains(t, m.View(), "between 10 and 1000")
}

func TestCycleAndGoalMessagesExpire(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(m, runes("s"), runes("1"), runes("0"), tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, runes("g"), runes("1"), tea.KeyMsg{Type: tea.KeyEnter})

	for i := 0; i < 9; i++ {
		m, _ = send(m, runes("+"))
	}
	m, cmd := send(m, runes("+"))
	require.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "One Tasbih completed! You've said 10 prayers.")
	assert.Contains(t, view, "Spiritual goal achieved: 1 cycles completed!")
	assert.Equal(t, 1, m.state.CompletedCycles)

	m, _ = send(m, expireMsg{Kind: types.EventCycleCompleted, Seq: m.achievementSeq})
	assert.Empty(t, m.achievement)
	assert.NotEmpty(t, m.goal)

	m, _ = send(m, expireMsg{Kind: types.EventGoalReached, Seq: m.goalSeq - 1})
	assert.NotEmpty(t, m.goal, "stale expiry ignored")
	m, _ = send(m, expireMsg{Kind: types.EventGoalReached, Seq: m.goalSeq})
	assert.Empty(t, m.goal)
}

func TestToggles(t *testing.T) {
	m, sess := newTestModel(t)

	m, _ = send(m, runes("m"))
	assert.Contains(t, m.View(), "Mantra Count")
	assert.Equal(t, types.ModeMantra, sess.Snapshot().Mode)

	m, _ = send(m, runes("v"))
	assert.False(t, sess.Snapshot().FeedbackEnabled)
	assert.Contains(t, m.View(), "Feedback: off")
}

func TestQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m, _ := newTestModel(t)
		m, cmd := send(m, key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)
		assert.Empty(t, m.View())
	}
}

func TestViewShowsProgress(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 25; i++ {
		m, _ = send(m, runes("+"))
	}

	view := m.View()
	assert.Contains(t, view, "Tasbih Count")
	assert.Contains(t, view, "25 of 100 prayers (75 remaining)")
	assert.Contains(t, view, "25%")
	assert.Contains(t, view, "Completed cycles: 0 / 10")
}

func TestRenderBarUsesSharedCells(t *testing.T) {
	for _, percent := range []float64{0, 50, 99.5, 100, 250} {
		filled, empty := theme.Cells(percent, theme.BarWidth)
		bar := renderBar(percent)
		assert.Equal(t, filled, strings.Count(bar, theme.FilledCell), "percent %v", percent)
		assert.Equal(t, empty, strings.Count(bar, theme.EmptyCell), "percent %v", percent)
	}
}
