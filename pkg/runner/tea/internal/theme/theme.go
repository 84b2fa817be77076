package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Blurred lipgloss.Style
	Error   lipgloss.Style
	Footer  FooterTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	History lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		Label: label,
		Focused: label.Copy().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		Blurred: label,
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			History: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
	}
}
