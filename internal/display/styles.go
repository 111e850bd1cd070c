package display

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header    lipgloss.Style
	handInfo  lipgloss.Style
	redCard   lipgloss.Style
	blackCard lipgloss.Style
	success   lipgloss.Style
	errorText lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
	cell      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		handInfo: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		redCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		blackCard: r.NewStyle().
			Bold(true),
		success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		errorText: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		cell: r.NewStyle().Padding(0, 1),
	}
}
