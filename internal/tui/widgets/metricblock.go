// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: Draws a titled frame around a value line, an optional ratio bar and a caption

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
)

const defaultBlockWidth = 22

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig uses the console palette
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       defaultBlockWidth,
		BorderColor: styles.Muted,
		TitleColor:  styles.Primary,
		ValueColor:  styles.Text,
	}
}

// frame draws the block border with the title set into the top edge. Body
// lines are padded by display width, so styled text keeps the right edge aligned.
type frame struct {
	cfg   MetricBlockConfig
	inner int
	lines []string
}

func newFrame(icon icons.Icon, title string, cfg MetricBlockConfig) *frame {
	if cfg.Width <= 0 {
		cfg.Width = defaultBlockWidth
	}
	f := &frame{cfg: cfg, inner: cfg.Width - 4}

	label := truncate(icon.String()+" "+title, f.inner)
	fill := max(0, cfg.Width-5-lipgloss.Width(label))
	top := "┌─ " + lipgloss.NewStyle().Foreground(cfg.TitleColor).Render(label) + " " + strings.Repeat("─", fill) + "┐"
	f.lines = append(f.lines, top)
	return f
}

func (f *frame) row(content string) {
	pad := max(0, f.inner-lipgloss.Width(content))
	f.lines = append(f.lines, "│  "+content+strings.Repeat(" ", pad)+"│")
}

func (f *frame) String() string {
	bottom := "└" + strings.Repeat("─", f.cfg.Width-2) + "┘"
	border := lipgloss.NewStyle().Foreground(f.cfg.BorderColor)

	out := make([]string, 0, len(f.lines)+1)
	for _, l := range append(f.lines, bottom) {
		out = append(out, border.Render(l))
	}
	return strings.Join(out, "\n")
}

func caption(s string, width int) string {
	return lipgloss.NewStyle().Foreground(styles.Muted).Render(truncate(s, width))
}

// MetricBlock renders a value with a caption underneath
func MetricBlock(icon icons.Icon, title, value, subtitle string, cfg MetricBlockConfig) string {
	f := newFrame(icon, title, cfg)
	f.row(lipgloss.NewStyle().Foreground(f.cfg.ValueColor).Bold(true).Render(truncate(value, f.inner)))
	f.row(caption(subtitle, f.inner))
	return f.String()
}

// MetricBlockWithBar renders a ratio with a bar; low ratios are flagged
func MetricBlockWithBar(icon icons.Icon, title string, percent float64, details string, cfg MetricBlockConfig) string {
	f := newFrame(icon, title, cfg)

	level := StatusFromPercent(percent, 50, 20)
	color, _ := levelColors(level)
	tone := lipgloss.NewStyle().Foreground(color)

	f.row(tone.Bold(true).Render(fmt.Sprintf("%3.0f%%", percent)) + " " + StatusIcon(level))
	f.row(CompactProgressBar(percent, f.inner-6, color))
	f.row(caption(details, f.inner))
	return f.String()
}

// CountBlock renders a simple count metric
func CountBlock(icon icons.Icon, title string, count int, label string, cfg MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), label, cfg)
}

// truncate shortens s to maxLen display columns, ending in an ellipsis
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(len(r), max(0, maxLen))])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+3 > maxLen {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
