package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/mala/internal/theme"
)

const defaultWidth = 60

var (
	colorAccent  = lipgloss.Color(theme.Accent)
	colorSuccess = lipgloss.Color(theme.Success)
	colorError   = lipgloss.Color(theme.Error)
	colorMuted   = lipgloss.Color(theme.Muted)
	colorWarning = lipgloss.Color(theme.Warning)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	countStyle = lipgloss.NewStyle().Bold(true)
	pulseStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	fillStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	okStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

func (m model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	p := m.state.Progress()
	count := countStyle
	if m.pulsing {
		count = pulseStyle
	}

	parts := []string{
		titleStyle.Render(p.Label),
		"",
		count.Render(fmt.Sprintf("%d", p.Count)),
		"",
		renderBar(p.Percent) + fmt.Sprintf(" %d%%", p.Rounded()),
		p.CycleText(),
		fmt.Sprintf("Completed cycles: %d / %d", p.CompletedCycles, p.GoalCycles),
		mutedStyle.Render("Feedback: " + theme.OnOff(m.state.FeedbackEnabled)),
	}

	if m.achievement != "" {
		parts = append(parts, "", okStyle.Render(m.achievement))
	}
	if m.goal != "" {
		parts = append(parts, "", m.renderGoal(width))
	}
	switch m.mode {
	case modeConfirm:
		if m.confirm != nil {
			parts = append(parts, "", m.renderConfirm(width))
		}
	case modeInput:
		if m.input != nil {
			parts = append(parts, "", fmt.Sprintf("%s: %s_", m.input.Label, m.input.Value))
		}
	}
	if m.statusText != "" {
		style := mutedStyle
		if m.statusKind == statusErr {
			style = errStyle
		}
		parts = append(parts, "", style.Render(m.statusText))
	}
	parts = append(parts, "", mutedStyle.Render(helpLine(m.mode)))

	return strings.Join(parts, "\n")
}

func renderBar(percent float64) string {
	filled, empty := theme.Bar(percent, theme.BarWidth)
	return fillStyle.Render(filled) + mutedStyle.Render(empty)
}

func (m model) renderGoal(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSuccess).
		Padding(0, 1).
		Width(min(width-2, 56))
	return box.Render(okStyle.Render(m.goal))
}

func (m model) renderConfirm(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorWarning).
		Padding(0, 1).
		Width(min(width-2, 56))
	return box.Render(m.confirm.Prompt)
}

func helpLine(mode uiMode) string {
	switch mode {
	case modeConfirm:
		return "y confirm • n/esc cancel"
	case modeInput:
		return "digits • enter save • esc cancel"
	}
	return "space/+ count • - undo • r reset • c reset cycle • m mode • v feedback • s size • g goal • q quit"
}
