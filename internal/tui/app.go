// ABOUTME: Root bubbletea model for the admin console
// ABOUTME: Routes screens, bridges forced logout into the UI and rebuilds the runtime after it

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/api"
	"github.com/kimguny/xpg-admin/internal/app"
	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/session"
	"github.com/kimguny/xpg-admin/internal/tui/dashboard"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/list"
	"github.com/kimguny/xpg-admin/internal/tui/login"
	"github.com/kimguny/xpg-admin/internal/tui/menu"
	"github.com/kimguny/xpg-admin/internal/tui/recentids"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
	"github.com/kimguny/xpg-admin/internal/tui/wizard"
)

// Screen represents the current console screen
type Screen int

const (
	ScreenRestoring Screen = iota
	ScreenLogin
	ScreenMenu
	ScreenList
	ScreenDashboard
	ScreenWizard
)

// Layout constants
const (
	minTerminalWidth = 80
	panelPadding     = 4
)

const expiredNotice = "Your session ended. Please log in again."

// sessionExpiredMsg opens the blocking modal; the pipeline waits on ack
type sessionExpiredMsg struct {
	message string
	ack     chan struct{}
}

// toLoginMsg is sent after a forced logout once the operator acknowledged it
type toLoginMsg struct{}

type restoredMsg struct {
	sess  *session.Controller
	state session.State
}

type loggedInMsg struct {
	loginID string
	user    *model.User
	err     error
}

type loggedOutMsg struct{}

type overviewMsg struct {
	overview *model.Overview
	err      error
}

type wizardReadyMsg struct {
	opts wizard.Options
	err  error
}

type stageCreatedMsg struct {
	contentID string
	title     string
	stage     *model.Stage
	err       error
}

// bridge lets pipeline goroutines reach the running program. It implements
// client.Notifier and client.Navigator for the console.
type bridge struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	done     chan struct{}
	doneOnce sync.Once
	cancel   context.CancelFunc
}

func newBridge() *bridge {
	return &bridge{done: make(chan struct{})}
}

func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// detach releases any goroutine still waiting on the operator
func (b *bridge) detach() {
	b.doneOnce.Do(func() { close(b.done) })
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = nil
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *bridge) post(msg tea.Msg) bool {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return false
	}
	send(msg)
	return true
}

// screen returns a fresh context for the next screen and cancels the previous one
func (b *bridge) screen() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	prev := b.cancel
	b.cancel = cancel
	b.mu.Unlock()
	if prev != nil {
		prev()
	}
	return ctx
}

// Alert shows the session-expired modal and blocks until it is dismissed
func (b *bridge) Alert(ctx context.Context, message string) {
	ack := make(chan struct{})
	if !b.post(sessionExpiredMsg{message: message, ack: ack}) {
		return
	}
	select {
	case <-ack:
	case <-b.done:
	case <-ctx.Done():
	}
}

// ToLogin tears down the current screen and switches to the login screen
func (b *bridge) ToLogin(context.Context) {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	b.post(toLoginMsg{})
}

// App is the root model for the console
type App struct {
	factory app.Factory
	bridge  *bridge
	rt      *app.Runtime
	recent  *recentids.RecentIDs
	logger  *slog.Logger

	screen     Screen
	ctx        context.Context
	width      int
	height     int
	err        error
	status     string
	user       *model.User
	lastUpdate time.Time

	// Child models
	login        *login.Login
	menu         *menu.Menu
	list         *list.List
	listParent   list.Source
	dashboard    *dashboard.Dashboard
	wizardScreen *wizard.Wizard
	modal        *sessionExpiredMsg
}

// New builds the first runtime through factory and starts on the restore splash
func New(factory app.Factory, recent *recentids.RecentIDs, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		factory: factory,
		bridge:  newBridge(),
		recent:  recent,
		logger:  logger,
		screen:  ScreenRestoring,
	}
	if err := a.rebuild(); err != nil {
		return nil, err
	}
	a.ctx = a.bridge.screen()
	return a, nil
}

// rebuild replaces the runtime; a forced logout leaves the old pipeline latched
func (a *App) rebuild() error {
	rt, err := a.factory(a.bridge, a.bridge)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}
	if a.rt != nil {
		a.rt.Close()
	}
	a.rt = rt
	return nil
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.restore()
}

func (a *App) restore() tea.Cmd {
	ctx, sess := a.ctx, a.rt.Session
	return func() tea.Msg {
		_ = sess.Restore(ctx)
		return restoredMsg{sess: sess, state: sess.State()}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.dashboardWidth(), a.contentHeight())
		}
		if a.list != nil {
			a.list.SetSize(a.width-panelPadding, a.contentHeight())
		}
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.width - 1)
		}
		return a, a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != nil {
			if msg.String() == "enter" {
				close(a.modal.ack)
				a.modal = nil
			}
			return a, nil
		}

		switch a.screen {
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenRestoring:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			return a, nil
		}
		return a, a.forward(msg)

	case sessionExpiredMsg:
		a.modal = &msg
		return a, nil

	case toLoginMsg:
		if err := a.rebuild(); err != nil {
			a.err = err
			return a, nil
		}
		return a, a.showLogin(expiredNotice)

	case restoredMsg:
		// A forced logout during restore already replaced the runtime
		if msg.sess != a.rt.Session {
			return a, nil
		}
		if msg.state.IsAuthenticated {
			a.user = msg.state.User
			return a, a.showMenu()
		}
		return a, a.showLogin(msg.state.Error)

	case login.SubmitMsg:
		return a, a.doLogin(msg.Credentials)

	case loggedInMsg:
		if msg.err != nil {
			if client.IsSuppressed(msg.err) || a.login == nil {
				return a, nil
			}
			return a, a.login.SetError(msg.err)
		}
		a.user = msg.user
		if a.recent != nil {
			if err := a.recent.Add(msg.loginID); err != nil {
				a.logger.Warn("could not remember login ID", "error", err)
			}
		}
		return a, a.showMenu()

	case loggedOutMsg:
		a.user = nil
		return a, a.showLogin("Signed out.")

	case menu.AreaSelectedMsg:
		return a.handleArea(msg.Area)

	case list.BackMsg:
		if a.listParent.Load != nil {
			src := a.listParent
			a.listParent = list.Source{}
			return a, a.showList(src)
		}
		return a, a.showMenu()

	case openStagesMsg:
		a.listParent = contentsSource(a.rt.API)
		return a, a.showList(stagesSource(a.rt.API, msg.contentID, msg.title))

	case openWizardMsg:
		return a, a.prepareWizard(msg.contentID, msg.title)

	case wizardReadyMsg:
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.wizardScreen = wizard.New(msg.opts)
		a.wizardScreen.SetWidth(a.width - 1)
		a.screen = ScreenWizard
		return a, a.wizardScreen.Init()

	case wizard.WizardCompleteMsg:
		title := ""
		if a.wizardScreen != nil {
			title = a.wizardScreen.ContentTitle()
		}
		return a, a.createStage(msg.ContentID, title, msg.Input)

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		return a, a.showMenu()

	case stageCreatedMsg:
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.wizardScreen = nil
		a.listParent = contentsSource(a.rt.API)
		cmd := a.showList(stagesSource(a.rt.API, msg.contentID, msg.title))
		a.status = fmt.Sprintf("Stage %q created", msg.stage.Title)
		return a, cmd

	case overviewMsg:
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.lastUpdate = time.Now()
		if a.dashboard != nil {
			a.dashboard.Update(msg.overview)
		}
		return a, nil
	}

	return a, a.forward(msg)
}

// forward hands msg to the model of the current screen
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil {
			_, cmd = a.login.Update(msg)
		}
	case ScreenMenu:
		if a.menu != nil {
			_, cmd = a.menu.Update(msg)
		}
	case ScreenList:
		if a.list != nil {
			_, cmd = a.list.Update(msg)
		}
	case ScreenWizard:
		if a.wizardScreen != nil {
			_, cmd = a.wizardScreen.Update(msg)
		}
	}
	return cmd
}

// fail records err unless the forced logout flow already reported it
func (a *App) fail(err error) tea.Cmd {
	if client.IsSuppressed(err) {
		return nil
	}
	a.err = err
	return nil
}

func (a *App) enter(screen Screen) {
	a.screen = screen
	a.ctx = a.bridge.screen()
	a.err = nil
	a.status = ""
}

func (a *App) showLogin(notice string) tea.Cmd {
	var recent []string
	if a.recent != nil {
		recent = a.recent.List()
	}
	a.enter(ScreenLogin)
	a.user = nil
	a.list, a.dashboard, a.wizardScreen, a.menu = nil, nil, nil, nil
	a.login = login.New(recent)
	a.login.SetNotice(notice)
	return a.login.Init()
}

func (a *App) showMenu() tea.Cmd {
	a.enter(ScreenMenu)
	a.list, a.dashboard, a.wizardScreen = nil, nil, nil
	a.listParent = list.Source{}
	a.login = nil
	name := ""
	if a.user != nil {
		name = a.user.DisplayName()
	}
	a.menu = menu.New(name)
	return a.menu.Init()
}

func (a *App) showList(src list.Source) tea.Cmd {
	a.enter(ScreenList)
	a.list = list.New(a.ctx, src, a.width-panelPadding, a.contentHeight())
	return a.list.Init()
}

func (a *App) handleArea(area menu.Area) (tea.Model, tea.Cmd) {
	switch area {
	case menu.AreaQuit:
		return a, tea.Quit
	case menu.AreaLogout:
		return a, a.doLogout()
	case menu.AreaDashboard:
		a.enter(ScreenDashboard)
		a.dashboard = dashboard.New(nil, a.dashboardWidth(), a.contentHeight())
		return a, a.loadOverview()
	}
	if src, ok := sourceFor(a.rt.API, area); ok {
		return a, a.showList(src)
	}
	return a, nil
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.rt.Cache.InvalidatePrefix("/dashboard")
		return a, a.loadOverview()
	case "b", "esc":
		return a, a.showMenu()
	}
	return a, nil
}

func (a *App) doLogin(creds model.LoginRequest) tea.Cmd {
	ctx, sess := a.ctx, a.rt.Session
	return func() tea.Msg {
		user, err := sess.Login(ctx, creds)
		return loggedInMsg{loginID: creds.LoginID, user: user, err: err}
	}
}

func (a *App) doLogout() tea.Cmd {
	ctx, sess := a.ctx, a.rt.Session
	return func() tea.Msg {
		_ = sess.Logout(ctx)
		return loggedOutMsg{}
	}
}

func (a *App) loadOverview() tea.Cmd {
	ctx, features := a.ctx, a.rt.API
	return func() tea.Msg {
		ov, err := features.Dashboard.Overview(ctx)
		return overviewMsg{overview: ov, err: err}
	}
}

func (a *App) prepareWizard(contentID, title string) tea.Cmd {
	ctx, features := a.ctx, a.rt.API
	return func() tea.Msg {
		stages, err := features.Stages.List(ctx, contentID, api.ListParams{Size: 100, Sort: "order"})
		if err != nil {
			return wizardReadyMsg{err: err}
		}
		active := true
		tags, err := features.NFCTags.List(ctx, api.ListParams{Size: 100, Active: &active})
		if err != nil {
			return wizardReadyMsg{err: err}
		}
		return wizardReadyMsg{opts: wizard.Options{
			ContentID:    contentID,
			ContentTitle: title,
			Stages:       stages.Items,
			Tags:         tags.Items,
		}}
	}
}

func (a *App) createStage(contentID, title string, in model.StageInput) tea.Cmd {
	ctx, features := a.ctx, a.rt.API
	return func() tea.Msg {
		stage, err := features.Stages.Create(ctx, contentID, in)
		return stageCreatedMsg{contentID: contentID, title: title, stage: stage, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenRestoring:
		content = styles.Subtitle.Render("Checking saved session...")
	case ScreenLogin:
		if a.login != nil {
			content = a.login.View()
		}
	case ScreenMenu:
		if a.menu != nil {
			content = a.menu.View()
		}
	case ScreenList:
		if a.list != nil {
			content = styles.ActivePanel.Width(a.width - panelPadding).Render(a.list.View())
		}
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenWizard:
		if a.wizardScreen != nil {
			content = a.wizardScreen.View()
		}
	}

	if a.err != nil {
		content += "\n" + styles.ErrorText.Render(icons.Critical.String()+" "+a.err.Error())
	}
	if a.status != "" && a.screen == ScreenList {
		content += "\n" + styles.StatusOK.Render(a.status)
	}

	if a.modal != nil {
		content = a.viewModal()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewModal() string {
	body := styles.StatusWarning.Render(icons.Lock.String()+" Session expired") + "\n\n" +
		a.modal.message + "\n\n" +
		styles.Help.Render("Press Enter to continue")
	box := styles.Modal.Render(body)
	width := max(a.width, minTerminalWidth)
	return lipgloss.PlaceHorizontal(width-1, lipgloss.Center, box)
}

// viewDashboard renders the dashboard with the actions pane
func (a *App) viewDashboard() string {
	leftPane := ""
	if a.dashboard != nil {
		leftPane = styles.ActivePanel.Width(a.dashboardWidth()).Render(a.dashboard.View())
	} else {
		leftPane = styles.Panel.Width(a.dashboardWidth()).Render("Loading...")
	}

	rightContent := styles.Title.Render(icons.Dashboard.String()+" Actions") + "\n\n"
	rightContent += icons.Refresh.String() + " Refresh data\n"
	rightContent += icons.Back.String() + " Back to menu\n"
	rightContent += icons.Quit.String() + " Quit console\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// dashboardWidth calculates the width for the dashboard pane
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth {
		return a.width - panelPadding
	}
	return (a.width - panelPadding) * 2 / 3
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	return a.width - a.dashboardWidth() - 4
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	// Header, footer, two separating newlines and panel border+padding
	return a.height - 8
}

func (a *App) frameWidth() int {
	// One column short of the terminal to prevent wrapping on some terminals
	return max(a.width-1, minTerminalWidth)
}

// renderHeader creates the header bar with app branding and the signed-in operator
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("X-Play.G Admin"))

	rightText := ""
	if a.user != nil && a.screen != ScreenLogin {
		rightText = " " + contextStyle.Render(a.user.DisplayName()) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// shortcuts returns the key hints for the current screen
func (a *App) shortcuts() []string {
	if a.modal != nil {
		return []string{"Enter Continue"}
	}
	switch a.screen {
	case ScreenRestoring:
		return []string{"q Quit"}
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "ctrl+c Quit"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Open", "q Quit"}
	case ScreenList:
		if a.list != nil {
			return a.list.Help()
		}
	case ScreenDashboard:
		return []string{"r Refresh", "b Back", "q Quit"}
	case ScreenWizard:
		return []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenDashboard {
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(a.lastUpdate)) + " "
	}

	// Drop hints that do not fit rather than wrap
	for len(styled) > 0 && 4+lipgloss.Width(leftText)+lipgloss.Width(rightText) > width {
		styled = styled[:len(styled)-1]
		leftText = " " + strings.Join(styled, "  ") + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the console and blocks until the operator quits
func Run(factory app.Factory, recent *recentids.RecentIDs, logger *slog.Logger) error {
	a, err := New(factory, recent, logger)
	if err != nil {
		return err
	}
	defer a.rt.Close()

	p := tea.NewProgram(a, tea.WithAltScreen())
	a.bridge.attach(p.Send)
	defer a.bridge.detach()

	_, err = p.Run()
	return err
}
