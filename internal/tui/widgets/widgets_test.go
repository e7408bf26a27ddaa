// ABOUTME: Tests for dashboard widgets
// ABOUTME: Checks status mapping and that rendered blocks keep their content

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
)

func TestStatusLevelOf(t *testing.T) {
	tests := []struct {
		status string
		want   StatusLevel
	}{
		{model.ContentPublished, StatusOK},
		{model.ContentDraft, StatusInfo},
		{model.UserSuspended, StatusWarning},
		{model.UserWithdrawn, StatusCritical},
		{"archived", StatusNeutral},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			if got := StatusLevelOf(tc.status); got != tc.want {
				t.Errorf("StatusLevelOf(%q) = %d, want %d", tc.status, got, tc.want)
			}
		})
	}
}

func TestStatusBadge(t *testing.T) {
	if got := StatusBadge("published"); !strings.Contains(got, "PUBLISHED") {
		t.Errorf("expected uppercase status, got %q", got)
	}
	if got := StatusBadge(""); !strings.Contains(got, "--") {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestStatusFromPercent(t *testing.T) {
	if StatusFromPercent(80, 50, 20) != StatusOK {
		t.Error("80% should be OK")
	}
	if StatusFromPercent(30, 50, 20) != StatusWarning {
		t.Error("30% should be a warning")
	}
	if StatusFromPercent(10, 50, 20) != StatusCritical {
		t.Error("10% should be critical")
	}
}

func TestCountBlock(t *testing.T) {
	block := CountBlock(icons.User, "Players", 1234, "registered", DefaultMetricBlockConfig())
	for _, want := range []string{"Players", "1234", "registered"} {
		if !strings.Contains(block, want) {
			t.Errorf("expected %q in block:\n%s", want, block)
		}
	}
	if lines := strings.Split(block, "\n"); len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestMetricBlockWithBar(t *testing.T) {
	block := MetricBlockWithBar(icons.Content, "Published", 75, "15 of 20", DefaultMetricBlockConfig())
	if !strings.Contains(block, "75%") {
		t.Errorf("expected percentage in block:\n%s", block)
	}
	if !strings.Contains(block, "15 of 20") {
		t.Errorf("expected details in block:\n%s", block)
	}
}

func TestProgressBarsClamp(t *testing.T) {
	for _, p := range []float64{-10, 0, 50, 100, 150} {
		bar := SimpleProgressBar(p, 10, lipgloss.Color("#fff"), lipgloss.Color("#000"))
		if w := lipgloss.Width(bar); w != 12 {
			t.Errorf("SimpleProgressBar(%v) width = %d, want 12", p, w)
		}
		compact := CompactProgressBar(p, 10, lipgloss.Color("#fff"))
		if w := lipgloss.Width(compact); w != 10 {
			t.Errorf("CompactProgressBar(%v) width = %d, want 10", p, w)
		}
	}
}
