package cli

import "github.com/charmbracelet/lipgloss"

const (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)
