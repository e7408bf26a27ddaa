// ABOUTME: Login screen with login ID and password fields
// ABOUTME: Emits credentials for the app to submit and shows an inline error on failure

package login

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
	"github.com/kimguny/xpg-admin/internal/validate"
)

// Inline error texts
const (
	InvalidCredentials = "Invalid ID or password"
	Unreachable        = "Cannot reach server"
)

// SubmitMsg carries the credentials the operator entered
type SubmitMsg struct {
	Credentials model.LoginRequest
}

// Login is the sign-in screen model
type Login struct {
	form     *huh.Form
	loginID  string
	password string
	recent   []string
	notice   string
	errText  string
	busy     bool
	width    int
}

// New creates a login screen; recent login IDs are offered as suggestions
func New(recent []string) *Login {
	l := &Login{recent: recent}
	if len(recent) > 0 {
		l.loginID = recent[0]
	}
	l.form = l.buildForm()
	return l
}

func (l *Login) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Login ID").
				Placeholder("admin").
				CharLimit(50).
				Suggestions(l.recent).
				Value(&l.loginID).
				Validate(required("login ID")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(128).
				Value(&l.password).
				Validate(required("password")),
		).Title(icons.App.String() + " X-Play.G Admin").
			Description("Sign in to the back-office"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// SetError shows why the last attempt failed and re-opens the form
func (l *Login) SetError(err error) tea.Cmd {
	l.busy = false
	l.errText = ErrorText(err)
	l.password = ""
	l.form = l.buildForm()
	return l.form.Init()
}

// SetNotice shows an informational line above the form
func (l *Login) SetNotice(notice string) {
	l.notice = notice
}

// ErrorText maps a login failure to the text shown to the operator
func ErrorText(err error) string {
	var ve *validate.ValidationError
	switch {
	case err == nil:
		return ""
	case client.IsUnauthorizedLogin(err):
		return InvalidCredentials
	case errors.As(err, &ve):
		return ve.Error()
	case client.StatusOf(err) == 0:
		return Unreachable
	default:
		return fmt.Sprintf("Login failed (status %d)", client.StatusOf(err))
	}
}

// Busy reports whether a login request is in flight
func (l *Login) Busy() bool {
	return l.busy
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		l.width = size.Width
	}
	if l.busy {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.busy = true
		l.errText = ""
		creds := model.LoginRequest{LoginID: strings.TrimSpace(l.loginID), Password: l.password}
		return l, func() tea.Msg { return SubmitMsg{Credentials: creds} }
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	if l.notice != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Warning).Render(l.notice))
		sb.WriteString("\n\n")
	}

	if l.busy {
		sb.WriteString(styles.Subtitle.Render("Signing in as " + l.loginID + "..."))
		return sb.String()
	}

	sb.WriteString(l.form.View())

	if l.errText != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + l.errText))
	}

	return sb.String()
}
