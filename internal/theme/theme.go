// Package theme holds the palette and glyphs shared by the terminal views,
// so the one-shot show output and the interactive session look alike.
package theme

import "strings"

// Palette, as hex colors understood by both lipgloss and termenv.
const (
	Accent  = "#D4A017"
	Success = "#3FB950"
	Error   = "#F85149"
	Muted   = "#8B949E"
	Warning = "#D29922"
)

// BarWidth is the progress bar length in cells.
const BarWidth = 30

// Bar glyphs.
const (
	FilledCell = "█"
	EmptyCell  = "░"
)

// Cells splits a width-cell bar for percent. Values outside 0..100 clamp.
func Cells(percent float64, width int) (filled, empty int) {
	filled = int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return filled, width - filled
}

// Bar returns the filled and empty runs of a progress bar so each view can
// color them with its own renderer.
func Bar(percent float64, width int) (filled, empty string) {
	f, e := Cells(percent, width)
	return strings.Repeat(FilledCell, f), strings.Repeat(EmptyCell, e)
}

// OnOff renders a toggle.
func OnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
