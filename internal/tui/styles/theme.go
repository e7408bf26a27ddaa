// ABOUTME: huh form theme shared by the login, menu and wizard screens
// ABOUTME: Maps the console palette onto focused and blurred field styles

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func button(text, background lipgloss.TerminalColor) lipgloss.Style {
	return fg(text).Background(background).Padding(0, 2).MarginRight(1)
}

// FormTheme returns the huh theme used by every console form. Focused
// fields get a sky bar on the left; blurred fields keep the indent but hide it.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	hint := lipgloss.Color("#9CA3AF")

	t.Group.Title = fg(Primary).Bold(true).MarginBottom(1)
	t.Group.Description = fg(hint).MarginBottom(1)

	f := &t.Focused
	f.Base = lipgloss.NewStyle().PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).BorderForeground(Primary)
	f.Title = fg(Accent).Bold(true)
	f.Description = fg(hint)
	f.ErrorIndicator = fg(Danger).SetString(" *")
	f.ErrorMessage = fg(Danger)
	f.SelectSelector = fg(Primary).SetString("> ")
	f.Option = fg(Text)
	f.SelectedOption = fg(Primary).Bold(true)
	f.NextIndicator = fg(Primary).MarginLeft(1).SetString("→")
	f.PrevIndicator = fg(Primary).MarginRight(1).SetString("←")
	f.TextInput.Cursor = fg(Accent)
	f.TextInput.Placeholder = fg(Muted)
	f.TextInput.Prompt = fg(Primary)
	f.TextInput.Text = fg(Text)
	f.FocusedButton = button(Text, Info)
	f.BlurredButton = button(hint, Surface)

	t.Blurred = t.Focused
	b := &t.Blurred
	b.Base = lipgloss.NewStyle().PaddingLeft(1).BorderStyle(lipgloss.HiddenBorder()).BorderLeft(true)
	b.Title = fg(hint)
	b.SelectSelector = fg(hint).SetString("  ")
	b.Option = fg(Muted)

	return t
}
