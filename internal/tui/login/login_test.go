// ABOUTME: Tests for the login screen
// ABOUTME: Covers credential submission and the inline error texts

package login

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/tuitest"
	"github.com/kimguny/xpg-admin/internal/validate"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestLoginSubmit(t *testing.T) {
	l := New(nil)
	l.Init()

	tuitest.Drain(l, tuitest.Keys("admin")...)
	tuitest.Drain(l, enter)
	tuitest.Drain(l, tuitest.Keys("secret")...)

	msg, ok := tuitest.Send(l, enter, tuitest.Is[SubmitMsg]())
	if !ok {
		t.Fatal("expected SubmitMsg")
	}
	creds := msg.(SubmitMsg).Credentials
	if creds.LoginID != "admin" || creds.Password != "secret" {
		t.Errorf("unexpected credentials %+v", creds)
	}
	if !l.Busy() {
		t.Error("expected busy while the request is in flight")
	}
	if !strings.Contains(l.View(), "Signing in as admin") {
		t.Errorf("expected progress line, got:\n%s", l.View())
	}
}

func TestLoginRequiresFields(t *testing.T) {
	l := New(nil)
	l.Init()

	if _, ok := tuitest.Send(l, enter, tuitest.Is[SubmitMsg]()); ok {
		t.Fatal("empty login ID must not submit")
	}
	errs := l.form.Errors()
	if len(errs) != 1 || errs[0].Error() != "login ID is required" {
		t.Errorf("expected field error, got %v", errs)
	}
}

func TestLoginPrefillsRecentID(t *testing.T) {
	l := New([]string{"kim", "lee"})
	if l.loginID != "kim" {
		t.Errorf("expected most recent ID, got %q", l.loginID)
	}
}

func TestSetErrorKeepsIDAndClearsPassword(t *testing.T) {
	l := New(nil)
	l.loginID = "admin"
	l.password = "wrong"
	l.busy = true

	l.SetError(&client.RequestError{Kind: client.AuthAttemptFailure, Status: 401})

	if l.Busy() {
		t.Error("expected form to reopen")
	}
	if l.password != "" {
		t.Error("expected password to be cleared")
	}
	if l.loginID != "admin" {
		t.Errorf("expected login ID kept, got %q", l.loginID)
	}
	if !strings.Contains(l.View(), InvalidCredentials) {
		t.Errorf("expected inline error, got:\n%s", l.View())
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"rejected", &client.RequestError{Kind: client.AuthAttemptFailure, Status: 401}, InvalidCredentials},
		{"forbidden", &client.RequestError{Kind: client.AuthAttemptFailure, Status: 403}, InvalidCredentials},
		{"offline", &client.RequestError{Kind: client.OtherFailure, Err: errors.New("dial tcp: refused")}, Unreachable},
		{"server", &client.RequestError{Kind: client.OtherFailure, Status: 500}, "Login failed (status 500)"},
		{"validation", validate.Struct(model.LoginRequest{Password: "abcd"}), "LoginID is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorText(tc.err); got != tc.want {
				t.Errorf("ErrorText() = %q, want %q", got, tc.want)
			}
		})
	}
}
