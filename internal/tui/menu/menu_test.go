// ABOUTME: Tests for the feature area menu
// ABOUTME: Validates options, selection messages and the quit shortcut

package menu

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kimguny/xpg-admin/internal/tui/tuitest"
)

func TestMenuOptions(t *testing.T) {
	if len(options) != 9 {
		t.Errorf("expected 9 options, got %d", len(options))
	}
	if options[0].value != AreaDashboard {
		t.Errorf("expected dashboard first, got %v", options[0].value)
	}
	if options[len(options)-1].value != AreaQuit {
		t.Error("expected quit to be the last option")
	}
}

func TestMenuViewGreetsOperator(t *testing.T) {
	m := New("Admin Kim")
	m.Init()
	view := m.View()
	if !strings.Contains(view, "Signed in as Admin Kim") {
		t.Errorf("expected greeting in view:\n%s", view)
	}
	if !strings.Contains(view, "Dashboard") {
		t.Errorf("expected dashboard option in view:\n%s", view)
	}
}

func TestMenuSelectEmitsArea(t *testing.T) {
	m := New("")
	m.Init()

	// Move down once to contents, then confirm
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	msg, ok := tuitest.Send(m, tea.KeyMsg{Type: tea.KeyEnter}, tuitest.Is[AreaSelectedMsg]())
	if !ok {
		t.Fatal("expected AreaSelectedMsg after selection")
	}
	if got := msg.(AreaSelectedMsg).Area; got != AreaContents {
		t.Errorf("expected contents, got %v", got)
	}

	// The menu is usable again afterwards
	if !strings.Contains(m.View(), "Dashboard") {
		t.Error("expected menu to be rebuilt")
	}
}

func TestMenuQuitShortcut(t *testing.T) {
	m := New("")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	msg, ok := cmd().(AreaSelectedMsg)
	if !ok || msg.Area != AreaQuit {
		t.Errorf("expected AreaQuit, got %#v", msg)
	}
}

func TestAreaString(t *testing.T) {
	tests := []struct {
		area     Area
		expected string
	}{
		{AreaDashboard, "Dashboard"},
		{AreaUsers, "Users"},
		{AreaLogout, "Log out"},
		{Area(99), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.area.String(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
