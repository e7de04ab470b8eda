package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the console renders with. Styles are bound to a
// renderer so that output to a pipe or buffer carries no escape codes.
type Styles struct {
	Dim      lipgloss.Style
	Warn     lipgloss.Style
	Error    lipgloss.Style
	Banner   lipgloss.Style
	Mode     lipgloss.Style
	Heading  lipgloss.Style
	Question lipgloss.Style
	Pass     lipgloss.Style
	Fail     lipgloss.Style
	Spinner  lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds the console styles for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Dim: r.NewStyle().
			Faint(true),
		Warn: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11")),
		Error: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")),
		Banner: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1),
		Mode: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11")),
		Heading: r.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("14")),
		Question: r.NewStyle().
			Foreground(lipgloss.Color("15")),
		Pass: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10")),
		Fail: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")),
		Spinner: r.NewStyle().
			Foreground(lipgloss.Color("11")),
		Help: r.NewStyle().
			Faint(true).
			Italic(true),
	}
}

func (s Styles) newSpinner() spinner.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner
	return sp
}
