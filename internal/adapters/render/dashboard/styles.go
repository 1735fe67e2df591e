package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	user       lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	metricKey  lipgloss.Style
	metricMeta lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	stamp      lipgloss.Style
	categories map[string]lipgloss.Style
	levels     map[string]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		user:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		metricKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(11),
		metricMeta: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		stamp:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		categories: map[string]lipgloss.Style{
			"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			"success": lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			"event":   lipgloss.NewStyle().Foreground(lipgloss.Color("177")),
			"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		levels: map[string]lipgloss.Style{
			"green":  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			"yellow": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			"red":    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}
