package progressui

import "github.com/charmbracelet/lipgloss"

// Palette adapted from the TUI's cyberpunk theme, trimmed to the
// handful of colors a scrolling progress report actually needs.
var (
	colorNeonPink  = lipgloss.Color("#ff79c6")
	colorNeonCyan  = lipgloss.Color("#8be9fd")
	colorGray      = lipgloss.Color("#44475a")
	colorLightGray = lipgloss.Color("#a9b1d6")
	colorSuccess   = lipgloss.Color("#50fa7b")
	colorError     = lipgloss.Color("#ff5555")
)
