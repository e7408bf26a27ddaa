// ABOUTME: Shared lipgloss styles for the admin console
// ABOUTME: Defines the palette, panels, the session-expired modal and form error text

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Palette
	Primary   = lipgloss.Color("#0EA5E9")
	Secondary = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#F9FAFB")
	Surface   = lipgloss.Color("#374151")
	Accent    = lipgloss.Color("#38BDF8")
	Info      = lipgloss.Color("#3B82F6")

	border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	Panel       = border.BorderForeground(Muted)
	ActivePanel = border.BorderForeground(Primary)

	// Modal is the blocking session-expired notice
	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Warning).
		Padding(1, 4).
		Align(lipgloss.Center)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Danger)
)
