// ABOUTME: Paged resource table used by every feature area
// ABOUTME: Loads rows from a Source, deletes with confirmation and exposes per-area actions

package list

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
)

// Row is one table line; ID identifies the backend record
type Row struct {
	ID    string
	Cells []string
}

// Page is one page of rows plus the total across pages
type Page struct {
	Rows  []Row
	Total int
}

// Action is an extra key binding offered for the selected row. Run calls
// the backend and refreshes; Emit hands the selection to the app instead.
type Action struct {
	Key   string
	Label string
	Run   func(ctx context.Context, id string) error
	Emit  func(row Row) tea.Msg
}

// Source describes a resource shown in the table
type Source struct {
	Title    string
	Icon     icons.Icon
	Columns  []table.Column
	PageSize int
	Load     func(ctx context.Context, page int) (Page, error)
	Delete   func(ctx context.Context, id string) error
	Actions  []Action
}

// BackMsg asks the app to leave the list
type BackMsg struct{}

type loadedMsg struct {
	page int
	data Page
	err  error
}

type doneMsg struct {
	what string
	err  error
}

// List is the resource table model
type List struct {
	ctx     context.Context
	src     Source
	table   table.Model
	rows    []Row
	page    int
	total   int
	loading bool
	confirm string
	status  string
	err     error
	width   int
	height  int
}

// New creates a list bound to the screen context ctx
func New(ctx context.Context, src Source, width, height int) *List {
	if src.PageSize <= 0 {
		src.PageSize = 20
	}
	t := table.New(
		table.WithColumns(src.Columns),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Surface).
		Bold(false)
	t.SetStyles(s)

	l := &List{ctx: ctx, src: src, table: t, page: 1}
	l.SetSize(width, height)
	return l
}

// SetSize updates the table dimensions
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	// Title, paging line and help take six lines
	l.table.SetHeight(max(3, height-6))
	l.table.SetWidth(max(20, width))
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return l.load(l.page)
}

func (l *List) load(page int) tea.Cmd {
	l.loading = true
	ctx, fn := l.ctx, l.src.Load
	return func() tea.Msg {
		data, err := fn(ctx, page)
		return loadedMsg{page: page, data: data, err: err}
	}
}

func (l *List) run(what string, fn func(ctx context.Context, id string) error, id string) tea.Cmd {
	l.loading = true
	ctx := l.ctx
	return func() tea.Msg {
		return doneMsg{what: what, err: fn(ctx, id)}
	}
}

// Selected returns the highlighted row
func (l *List) Selected() (Row, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[i], true
}

func (l *List) pages() int {
	if l.total <= 0 {
		return 1
	}
	return (l.total + l.src.PageSize - 1) / l.src.PageSize
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		l.loading = false
		if msg.err != nil {
			l.setErr(msg.err)
			return l, nil
		}
		l.err = nil
		l.page = msg.page
		l.total = msg.data.Total
		l.rows = msg.data.Rows
		cells := make([]table.Row, len(l.rows))
		for i, r := range l.rows {
			cells[i] = r.Cells
		}
		l.table.SetRows(cells)
		if l.table.Cursor() >= len(cells) {
			l.table.SetCursor(max(0, len(cells)-1))
		}
		return l, nil

	case doneMsg:
		l.loading = false
		if msg.err != nil {
			l.setErr(msg.err)
			return l, nil
		}
		l.status = msg.what
		return l, l.load(l.page)

	case tea.KeyMsg:
		return l.handleKey(msg)
	}

	return l, nil
}

func (l *List) setErr(err error) {
	// The forced logout flow already told the operator
	if client.IsSuppressed(err) {
		return
	}
	l.err = err
	l.status = ""
}

func (l *List) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if l.confirm != "" {
		id := l.confirm
		l.confirm = ""
		if msg.String() == "y" {
			return l, l.run("Deleted "+id, l.src.Delete, id)
		}
		l.status = "Delete cancelled"
		return l, nil
	}

	switch msg.String() {
	case "esc", "b":
		return l, func() tea.Msg { return BackMsg{} }
	case "r":
		l.status = ""
		return l, l.load(l.page)
	case "n", "right":
		if l.page < l.pages() {
			return l, l.load(l.page + 1)
		}
		return l, nil
	case "p", "left":
		if l.page > 1 {
			return l, l.load(l.page - 1)
		}
		return l, nil
	case "d":
		if row, ok := l.Selected(); ok && l.src.Delete != nil {
			l.confirm = row.ID
		}
		return l, nil
	}

	for _, a := range l.src.Actions {
		if msg.String() != a.Key {
			continue
		}
		row, ok := l.Selected()
		if !ok {
			return l, nil
		}
		if a.Emit != nil {
			return l, func() tea.Msg { return a.Emit(row) }
		}
		if a.Run != nil {
			return l, l.run(a.Label+" "+row.ID, a.Run, row.ID)
		}
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(l.src.Icon.String() + " " + l.src.Title))
	sb.WriteString("\n")
	sb.WriteString(l.table.View())
	sb.WriteString("\n")

	switch {
	case l.confirm != "":
		sb.WriteString(styles.StatusWarning.Render(fmt.Sprintf("Delete %s? (y/n)", l.confirm)))
	case l.loading:
		sb.WriteString(styles.Subtitle.Render("Loading..."))
	case l.err != nil:
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + l.err.Error()))
	case l.status != "":
		sb.WriteString(styles.StatusOK.Render(l.status))
	default:
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Page %d of %d · %d total", l.page, l.pages(), l.total)))
	}

	return sb.String()
}

// Help returns the key hints for the frame footer
func (l *List) Help() []string {
	if l.confirm != "" {
		return []string{"y Confirm", "n Cancel"}
	}
	keys := []string{"↑↓ Move", "n/p Page", "r Refresh"}
	if l.src.Delete != nil {
		keys = append(keys, "d Delete")
	}
	for _, a := range l.src.Actions {
		keys = append(keys, a.Key+" "+a.Label)
	}
	return append(keys, "esc Back")
}
