// ABOUTME: Feature area menu shown after login
// ABOUTME: Emits the chosen area so the app can switch screens

package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
)

// Area is a console feature area
type Area int

const (
	AreaDashboard Area = iota
	AreaContents
	AreaNFCTags
	AreaNotifications
	AreaStores
	AreaRewards
	AreaUsers
	AreaLogout
	AreaQuit
)

// AreaSelectedMsg is sent when the operator picks an area
type AreaSelectedMsg struct {
	Area Area
}

type option struct {
	icon  icons.Icon
	label string
	value Area
}

var options = []option{
	{icons.Dashboard, "Dashboard", AreaDashboard},
	{icons.Content, "Contents & stages", AreaContents},
	{icons.NFC, "NFC tags", AreaNFCTags},
	{icons.Notification, "Notifications", AreaNotifications},
	{icons.Store, "Stores", AreaStores},
	{icons.Reward, "Rewards", AreaRewards},
	{icons.User, "Users", AreaUsers},
	{icons.Logout, "Log out", AreaLogout},
	{icons.Quit, "Quit", AreaQuit},
}

// Menu is the feature area selection model
type Menu struct {
	operator string
	selected Area
	form     *huh.Form
}

// New creates a menu greeting the signed-in operator
func New(operator string) *Menu {
	m := &Menu{operator: operator}
	m.form = m.buildForm()
	return m
}

func (m *Menu) buildForm() *huh.Form {
	opts := make([]huh.Option[Area], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s", o.icon.String(), o.label), o.value))
	}

	title := "Select an area"
	if m.operator != "" {
		title = fmt.Sprintf("Signed in as %s", m.operator)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Area]().
				Title(title).
				Description("Use ↑/↓ to move, Enter to open").
				Options(opts...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
		return m, func() tea.Msg { return AreaSelectedMsg{Area: AreaQuit} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		area := m.selected
		// Rebuild so the menu is ready when the operator comes back
		m.form = m.buildForm()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return AreaSelectedMsg{Area: area} })
	}

	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// String returns the label of an area
func (a Area) String() string {
	for _, o := range options {
		if o.value == a {
			return o.label
		}
	}
	return "unknown"
}
