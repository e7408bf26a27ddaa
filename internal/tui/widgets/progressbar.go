// ABOUTME: Progress bars for ratio displays on the dashboard
// ABOUTME: Bracketed and compact variants, both clamped to 0-100

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func clampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// SimpleProgressBar renders a basic colored bar without zones
func SimpleProgressBar(percent float64, width int, filledColor, emptyColor lipgloss.Color) string {
	if width <= 0 {
		width = 20
	}

	filled := int(clampPercent(percent) / 100.0 * float64(width))

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(filledColor).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(emptyColor).Render(strings.Repeat("░", width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// CompactProgressBar renders a minimal progress bar for tight spaces
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}

	filled := int(clampPercent(percent) / 100.0 * float64(width))
	empty := width - filled

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", empty))
}
