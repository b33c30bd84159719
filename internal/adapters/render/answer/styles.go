package answer

import "github.com/charmbracelet/lipgloss"

type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	option  lipgloss.Style
	text    lipgloss.Style
	credits lipgloss.Style
	faint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		option:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		text:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		credits: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		faint:   lipgloss.NewStyle().Faint(true),
	}
}
