package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminal backgrounds.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#1d6fa5", Dark: "#79c3ee"}
	ink     = lipgloss.AdaptiveColor{Light: "#f4f4f4", Dark: "#101419"}
	sealed  = lipgloss.AdaptiveColor{Light: "#2b8a57", Dark: "#78dba9"}
	frame   = lipgloss.AdaptiveColor{Light: "#b3006e", Dark: "#ff06b7"}
	muted   = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#767676"}
	failure = lipgloss.AdaptiveColor{Light: "#b3261e", Dark: "#e05f65"}
)

var (
	selectedStyle   = lipgloss.NewStyle().Background(accent).Foreground(ink)
	unSelectedStyle = lipgloss.NewStyle()
	inputStyle      = lipgloss.NewStyle().Foreground(accent)
	statusStyle     = lipgloss.NewStyle().Foreground(sealed)

	// chain summary above the menu
	headerStyle = lipgloss.NewStyle().
			Foreground(muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(muted)

	hashStyle = lipgloss.NewStyle().Foreground(sealed)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame).
			Padding(1, 2, 1, 3).
			Width(90)

	buttonStyle        = lipgloss.NewStyle().Bold(true).Foreground(sealed)
	buttonFocusedStyle = buttonStyle.Background(sealed).Foreground(ink)
	errorStyle         = lipgloss.NewStyle().Foreground(failure).Bold(true)
	helpStyle          = lipgloss.NewStyle().Foreground(muted).Italic(true)
)
