// Package report formats pipeline results for the terminal.
package report

import "github.com/charmbracelet/lipgloss"

// Semantic colors.
var (
	ColorFail  = lipgloss.Color("#e53935") // red
	ColorPass  = lipgloss.Color("#8BC34A") // lime green
	ColorWarn  = lipgloss.Color("#FFC107") // yellow
	ColorInfo  = lipgloss.Color("#2196F3") // blue
	ColorMuted = lipgloss.Color("#6b7785")
)

// Styles holds the text styles used by Printer.
type Styles struct {
	Title lipgloss.Style
	Pass  lipgloss.Style
	Fail  lipgloss.Style
	Warn  lipgloss.Style
	Info  lipgloss.Style
	Muted lipgloss.Style
}

// ColorStyles returns the styles for color terminals.
func ColorStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(ColorInfo),
		Pass:  lipgloss.NewStyle().Bold(true).Foreground(ColorPass),
		Fail:  lipgloss.NewStyle().Bold(true).Foreground(ColorFail),
		Warn:  lipgloss.NewStyle().Foreground(ColorWarn),
		Info:  lipgloss.NewStyle().Foreground(ColorInfo),
		Muted: lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Pass: s, Fail: s, Warn: s, Info: s, Muted: s}
}
