package cli

import "github.com/charmbracelet/lipgloss"

// theme colours ticketctl output. Styles render plain text when the output
// is not a terminal.
type theme struct {
	Success lipgloss.Color
	Hint    lipgloss.Color
}

var defaultTheme = theme{
	Success: lipgloss.Color("#00D787"),
	Hint:    lipgloss.Color("#6C6C6C"),
}

func (t theme) success(s string) string {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render(s)
}

func (t theme) hint(s string) string {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true).Render(s)
}
