// Package style holds the colors and glyphs shared by the terminal output of
// the CLI: log lines and error reports.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Ember  = lipgloss.Color("#E8590C")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "·"
	Arrow   = "→"
)

// LevelColor returns the color used for a log severity: "debug", "info",
// "warn" or "error". Unknown levels render in Slate.
func LevelColor(level string) lipgloss.Color {
	switch level {
	case "warn":
		return Yellow
	case "error":
		return Red
	case "info":
		return Ember
	default:
		return Slate
	}
}
