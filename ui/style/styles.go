package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by the status canvas and log lines.
type Styles struct {
	// Status canvas
	Spinner   lipgloss.Style
	Command   lipgloss.Style
	Counter   lipgloss.Style
	Elapsed   lipgloss.Style
	Separator lipgloss.Style

	// Exit states
	Success lipgloss.Style
	Failure lipgloss.Style

	// Log levels
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style

	// Misc
	Muted lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")), // Muted yellow
		Command: lipgloss.NewStyle().
			Bold(true),
		Counter: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Elapsed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")), // Gray
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")), // Muted green
		Failure: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		Debug: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")),
		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Level returns the style for a log level name. Unknown levels are muted.
func (s Styles) Level(level string) lipgloss.Style {
	switch level {
	case "debug", "trace":
		return s.Debug
	case "info":
		return s.Info
	case "warn", "warning":
		return s.Warn
	case "error", "fatal", "panic":
		return s.Error
	default:
		return s.Muted
	}
}
