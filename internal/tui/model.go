// Package tui runs the interactive counting session.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/mala/internal/session"
	"github.com/mesh-intelligence/mala/pkg/types"
)

// Counter is the session surface the interactive view drives.
type Counter interface {
	Dispatch(ctx context.Context, cmd session.Command) (session.Result, error)
	Snapshot() types.Snapshot
}

// Presser receives the press-down of a counting key.
type Presser interface {
	Press(enabled bool)
}

type uiMode int

const (
	modeMain uiMode = iota
	modeConfirm
	modeInput
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusErr
)

type confirmState struct {
	Command string
	Prompt  string
}

type inputState struct {
	Command string
	Label   string
	Value   string
}

// expireMsg clears a transient message once its display time is over.
// Seq guards against clearing a newer message of the same kind.
type expireMsg struct {
	Kind types.EventKind
	Seq  int
}

type pulseMsg struct {
	Seq int
}

type model struct {
	ctx     context.Context
	counter Counter
	presser Presser

	state types.Snapshot
	mode  uiMode

	confirm *confirmState
	input   *inputState

	achievement    string
	achievementSeq int
	goal           string
	goalSeq        int
	pulsing        bool
	pulseSeq       int

	statusText string
	statusKind statusKind

	width    int
	quitting bool
}

func newModel(ctx context.Context, c Counter, p Presser) model {
	return model{
		ctx:     ctx,
		counter: c,
		presser: p,
		state:   c.Snapshot(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case expireMsg:
		switch {
		case msg.Kind == types.EventCycleCompleted && msg.Seq == m.achievementSeq:
			m.achievement = ""
		case msg.Kind == types.EventGoalReached && msg.Seq == m.goalSeq:
			m.goal = ""
		}
		return m, nil
	case pulseMsg:
		if msg.Seq == m.pulseSeq {
			m.pulsing = false
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeConfirm:
			return m.updateConfirmMode(msg)
		case modeInput:
			return m.updateInputMode(msg)
		default:
			return m.updateMainMode(msg)
		}
	}
	return m, nil
}

func (m model) updateMainMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space", "enter", "+", "k":
		m.press()
		return m.run(session.CmdIncrement, "")
	case "-", "backspace", "j":
		m.press()
		return m.run(session.CmdDecrement, "")
	case "r", "esc":
		m.askConfirm(session.CmdResetCount, "Reset all counts? Completed cycles are cleared too. [y/N]")
		return m, nil
	case "c":
		m.askConfirm(session.CmdResetCycle, "Reset the current cycle? [y/N]")
		return m, nil
	case "ctrl+r":
		return m.run(session.CmdResetCycle, "")
	case "m":
		return m.run(session.CmdToggleMode, "")
	case "v":
		return m.run(session.CmdToggleFeedback, "")
	case "s":
		m.openInput(session.CmdSetCycleSize, "Beads per cycle")
		return m, nil
	case "g":
		m.openInput(session.CmdSetGoal, "Goal cycles")
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		confirm := m.confirm
		m.mode = modeMain
		m.confirm = nil
		return m.run(confirm.Command, "")
	case "n", "N", "q", "esc", "enter":
		m.mode = modeMain
		m.confirm = nil
		m.setStatus(statusInfo, "Reset cancelled")
	}
	return m, nil
}

func (m model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeMain
		m.input = nil
		return m, nil
	case tea.KeyEnter:
		in := m.input
		m.mode = modeMain
		m.input = nil
		if in.Value == "" {
			return m, nil
		}
		return m.run(in.Command, in.Value)
	case tea.KeyBackspace:
		if n := len(m.input.Value); n > 0 {
			m.input.Value = m.input.Value[:n-1]
		}
		return m, nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' && len(m.input.Value) < 4 {
				m.input.Value += string(r)
			}
		}
	}
	return m, nil
}

// run dispatches one command and schedules expiry of any notification it
// raised.
func (m model) run(name, arg string) (tea.Model, tea.Cmd) {
	res, err := m.counter.Dispatch(m.ctx, session.Command{Name: name, Arg: arg})
	m.state = m.counter.Snapshot()
	if err != nil {
		// Out-of-range input keeps the previous value.
		m.setStatus(statusErr, err.Error())
		return m, nil
	}
	m.statusText = ""

	var cmds []tea.Cmd
	if res.Changed && (name == session.CmdIncrement || name == session.CmdDecrement) {
		m.pulseSeq++
		m.pulsing = true
		seq := m.pulseSeq
		cmds = append(cmds, tea.Tick(types.PulseDuration, func(time.Time) tea.Msg {
			return pulseMsg{Seq: seq}
		}))
	}
	for _, e := range res.Events {
		switch e.Kind {
		case types.EventCycleCompleted:
			m.achievementSeq++
			m.achievement = types.AchievementText(e.State.Mode, e.State.CycleSize)
			cmds = append(cmds, expire(e.Kind, m.achievementSeq, types.AchievementDuration))
		case types.EventGoalReached:
			m.goalSeq++
			m.goal = types.GoalText(e.State.CompletedCycles)
			cmds = append(cmds, expire(e.Kind, m.goalSeq, types.GoalDuration))
		}
	}
	if name == session.CmdSetCycleSize || name == session.CmdSetGoal {
		m.setStatus(statusInfo, "Saved")
	}
	return m, tea.Batch(cmds...)
}

func expire(kind types.EventKind, seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return expireMsg{Kind: kind, Seq: seq}
	})
}

func (m *model) press() {
	if m.presser != nil {
		m.presser.Press(m.state.FeedbackEnabled)
	}
}

func (m *model) askConfirm(command, prompt string) {
	m.mode = modeConfirm
	m.confirm = &confirmState{Command: command, Prompt: prompt}
}

func (m *model) openInput(command, label string) {
	m.mode = modeInput
	m.input = &inputState{Command: command, Label: label}
}

func (m *model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.statusText = text
}
