package popup

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	credits   lipgloss.Style
	err       lipgloss.Style
	info      lipgloss.Style
	countdown lipgloss.Style
	help      lipgloss.Style
	panel     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		credits:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		err:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		info:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		countdown: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		help:      lipgloss.NewStyle().Faint(true),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
	}
}
