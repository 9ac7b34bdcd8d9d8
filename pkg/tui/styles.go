package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
	summary lipgloss.Style
	info    lipgloss.Style
	error   lipgloss.Style
	help    lipgloss.Style
}

func defaultStyles() styles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f44336")),
		label:   lipgloss.NewStyle().Width(20),
		focused: lipgloss.NewStyle().Width(20).Bold(true).Foreground(lipgloss.Color("#4CAF50")),
		summary: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		info:    box.BorderForeground(lipgloss.Color("#4CAF50")),
		error:   box.BorderForeground(lipgloss.Color("#f44336")),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
