// ABOUTME: Dashboard component showing the operation overview
// ABOUTME: Renders player, content and reward counters plus recent activity

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
	"github.com/kimguny/xpg-admin/internal/tui/widgets"
)

// Dashboard displays the operation overview
type Dashboard struct {
	overview *model.Overview
	width    int
	height   int
}

// New creates a new dashboard with overview data
func New(overview *model.Overview, width, height int) *Dashboard {
	return &Dashboard{
		overview: overview,
		width:    width,
		height:   height,
	}
}

// Update refreshes dashboard with new overview data
func (d *Dashboard) Update(overview *model.Overview) {
	d.overview = overview
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

func percentOf(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.overview == nil {
		return styles.Panel.Width(d.width).Render("Loading dashboard...")
	}
	s := d.overview.Summary

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Dashboard.String() + " Operation Overview"))
	sb.WriteString("\n")
	if !s.GeneratedAt.IsZero() {
		sb.WriteString(styles.Subtitle.Render("as of " + s.GeneratedAt.Local().Format("2006-01-02 15:04")))
		sb.WriteString("\n")
	}

	cfg := widgets.DefaultMetricBlockConfig()
	row1 := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.User, "Players", s.TotalUsers, fmt.Sprintf("+%d today", s.NewUsersToday), cfg),
		" ",
		widgets.MetricBlockWithBar(icons.User, "Active", percentOf(s.ActiveUsers, s.TotalUsers),
			fmt.Sprintf("%d of %d", s.ActiveUsers, s.TotalUsers), cfg),
		" ",
		widgets.MetricBlockWithBar(icons.Content, "Published", percentOf(s.PublishedContents, s.TotalContents),
			fmt.Sprintf("%d of %d", s.PublishedContents, s.TotalContents), cfg),
	)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Stage, "Stages", s.TotalStages, fmt.Sprintf("%d clears", s.StageClears), cfg),
		" ",
		widgets.CountBlock(icons.NFC, "NFC Tags", s.NFCTags, "registered", cfg),
		" ",
		widgets.CountBlock(icons.Reward, "Rewards", s.RewardsRedeemed, fmt.Sprintf("%d pts issued", s.PointsIssued), cfg),
	)
	sb.WriteString(row1)
	sb.WriteString("\n")
	sb.WriteString(row2)
	sb.WriteString("\n\n")

	sb.WriteString(styles.Subtitle.Render(icons.Notification.String() + " Recent Notifications"))
	sb.WriteString("\n")
	if len(d.overview.RecentNotifications) == 0 {
		sb.WriteString("  none\n")
	}
	for _, n := range d.overview.RecentNotifications {
		sb.WriteString(fmt.Sprintf("  %s %s\n", widgets.StatusBadge(n.Status), n.Title))
	}
	sb.WriteString("\n")

	sb.WriteString(styles.Subtitle.Render(icons.Points.String() + " Top Players"))
	sb.WriteString("\n")
	if len(d.overview.TopUsers) == 0 {
		sb.WriteString("  none\n")
	}
	for i, u := range d.overview.TopUsers {
		sb.WriteString(fmt.Sprintf("  %d. %-20s %s\n", i+1, u.DisplayName(),
			styles.ValueStyle.Render(fmt.Sprintf("%d pts", u.Points))))
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}
