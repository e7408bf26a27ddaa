// ABOUTME: Dashboard command for the xpg-admin CLI
// ABOUTME: Prints the operation overview with activity ratings

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kimguny/xpg-admin/internal/model"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the operation overview",
	Long:  `Show player, content and reward totals with the latest notifications and top players.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runDashboard)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(s *cliSession, w io.Writer) error {
	if err := s.requireCredential(); err != nil {
		return err
	}
	ov, err := s.rt.API.Dashboard.Overview(s.ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return writeJSON(w, ov)
	}
	fmt.Fprintln(w, formatDashboardHuman(ov))
	return nil
}

// formatDashboardHuman formats the overview for human readability
func formatDashboardHuman(ov *model.Overview) string {
	sum := ov.Summary
	active := percent(sum.ActiveUsers, sum.TotalUsers)
	published := percent(sum.PublishedContents, sum.TotalContents)

	var sb strings.Builder
	fmt.Fprintf(&sb, `Players:        %d (+%d today)
Active:         %d (%.0f%%) [%s]
Contents:       %d, %d published (%.0f%%) [%s]
Stages:         %d
NFC Tags:       %d
Stage Clears:   %d
Rewards:        %d redeemed
Points Issued:  %d`,
		sum.TotalUsers, sum.NewUsersToday,
		sum.ActiveUsers, active, activityStatus(active, 50, 20),
		sum.TotalContents, sum.PublishedContents, published, activityStatus(published, 50, 20),
		sum.TotalStages,
		sum.NFCTags,
		sum.StageClears,
		sum.RewardsRedeemed,
		sum.PointsIssued)

	sb.WriteString("\n\nRecent Notifications:\n")
	if len(ov.RecentNotifications) == 0 {
		sb.WriteString("  none\n")
	}
	for _, n := range ov.RecentNotifications {
		fmt.Fprintf(&sb, "  %-10s %s\n", n.Status, n.Title)
	}

	sb.WriteString("\nTop Players:\n")
	if len(ov.TopUsers) == 0 {
		sb.WriteString("  none")
	}
	for i, u := range ov.TopUsers {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  %d. %s (%d pts)", i+1, u.DisplayName(), u.Points)
	}

	return sb.String()
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// activityStatus returns ok/warning/critical; higher is healthier
func activityStatus(percent, okThreshold, warningThreshold float64) string {
	if percent >= okThreshold {
		return "ok"
	}
	if percent >= warningThreshold {
		return "warning"
	}
	return "critical"
}
