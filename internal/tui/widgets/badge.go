// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps content, user and notification statuses to colored inline badges

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func levelColors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := levelColors(level)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusLevelOf maps a backend status string to a display level.
func StatusLevelOf(status string) StatusLevel {
	switch status {
	case model.ContentPublished, model.UserActive, "sent":
		return StatusOK
	case model.ContentDraft, "scheduled":
		return StatusInfo
	case model.UserSuspended:
		return StatusWarning
	case model.UserWithdrawn:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// StatusBadge renders a backend status as an uppercase badge.
func StatusBadge(status string) string {
	if status == "" {
		return Badge("--", StatusNeutral)
	}
	return Badge(strings.ToUpper(status), StatusLevelOf(status))
}

// StatusFromPercent returns the level for a share where higher is better
func StatusFromPercent(percent, warnBelow, critBelow float64) StatusLevel {
	if percent < critBelow {
		return StatusCritical
	}
	if percent < warnBelow {
		return StatusWarning
	}
	return StatusOK
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := levelColors(level)
	var glyph string
	switch level {
	case StatusOK:
		glyph = icons.CheckOK.String()
	case StatusWarning:
		glyph = icons.Warning.String()
	case StatusCritical:
		glyph = icons.Critical.String()
	case StatusInfo:
		glyph = icons.Info.String()
	default:
		glyph = "•"
	}
	return lipgloss.NewStyle().Foreground(bg).Render(glyph)
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	color, _ := levelColors(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(color).Render(text))
}
