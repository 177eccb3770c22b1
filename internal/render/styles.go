// Package render draws tables, statistics cards and form previews for the
// terminal with lipgloss.
package render

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary     = lipgloss.Color("#101F38")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")
)

// Styles holds the styles used by every renderer.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Muted   lipgloss.Style
	Card    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// DefaultStyles returns the standard styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Padding(0, 1),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Muted).Padding(0, 1),
		Success: lipgloss.NewStyle().Foreground(Accent),
		Error:   lipgloss.NewStyle().Foreground(Destructive),
		Info:    lipgloss.NewStyle().Foreground(Info),
	}
}
