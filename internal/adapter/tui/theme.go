package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette of the dashboard view. All colors use
// lipgloss ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color

	// Spinner and loading label.
	LoadingForeground lipgloss.Color
	// Load failure message.
	ErrorForeground lipgloss.Color

	// Active filter button.
	ActiveBackground lipgloss.Color
	ActiveForeground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:        lipgloss.Color("252"),
	FaintText:         lipgloss.Color("245"),
	HeaderForeground:  lipgloss.Color("255"),
	BorderColor:       lipgloss.Color("240"),
	LoadingForeground: lipgloss.Color("33"),
	ErrorForeground:   lipgloss.Color("196"),
	ActiveBackground:  lipgloss.Color("33"),
	ActiveForeground:  lipgloss.Color("231"),
}
