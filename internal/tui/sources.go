// ABOUTME: Table sources for each feature area, backed by the typed API clients
// ABOUTME: Maps backend records to table rows and wires per-area row actions

package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kimguny/xpg-admin/internal/api"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/list"
	"github.com/kimguny/xpg-admin/internal/tui/menu"
)

const pageSize = 20

// openStagesMsg asks for the stage list of a content
type openStagesMsg struct {
	contentID string
	title     string
}

// openWizardMsg asks for the stage wizard of a content
type openWizardMsg struct {
	contentID string
	title     string
}

func toPage[T any](p *model.Page[T], row func(T) list.Row) list.Page {
	rows := make([]list.Row, 0, len(p.Items))
	for _, item := range p.Items {
		rows = append(rows, row(item))
	}
	return list.Page{Rows: rows, Total: p.Total}
}

func params(page int) api.ListParams {
	return api.ListParams{Page: page, Size: pageSize}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func shortTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("01-02 15:04")
}

// sourceFor returns the table source of a menu area
func sourceFor(features *api.API, area menu.Area) (list.Source, bool) {
	switch area {
	case menu.AreaContents:
		return contentsSource(features), true
	case menu.AreaNFCTags:
		return nfcSource(features), true
	case menu.AreaNotifications:
		return notificationsSource(features), true
	case menu.AreaStores:
		return storesSource(features), true
	case menu.AreaRewards:
		return rewardsSource(features), true
	case menu.AreaUsers:
		return usersSource(features), true
	}
	return list.Source{}, false
}

func contentsSource(features *api.API) list.Source {
	return list.Source{
		Title: "Contents",
		Icon:  icons.Content,
		Columns: []table.Column{
			{Title: "ID", Width: 10},
			{Title: "Title", Width: 28},
			{Title: "Status", Width: 10},
			{Title: "Stages", Width: 6},
			{Title: "Starts", Width: 11},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.Contents.List(ctx, params(page))
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(c model.Content) list.Row {
				return list.Row{ID: c.ID, Cells: []string{c.ID, c.Title, c.Status, strconv.Itoa(c.StageCount), shortTime(c.StartsAt)}}
			}), nil
		},
		Delete: features.Contents.Delete,
		Actions: []list.Action{
			{Key: "g", Label: "Stages", Emit: func(row list.Row) tea.Msg {
				return openStagesMsg{contentID: row.ID, title: row.Cells[1]}
			}},
			{Key: "w", Label: "Add stage", Emit: func(row list.Row) tea.Msg {
				return openWizardMsg{contentID: row.ID, title: row.Cells[1]}
			}},
		},
	}
}

func stagesSource(features *api.API, contentID, title string) list.Source {
	return list.Source{
		Title: "Stages of " + title,
		Icon:  icons.Stage,
		Columns: []table.Column{
			{Title: "#", Width: 3},
			{Title: "Title", Width: 28},
			{Title: "Unlock", Width: 15},
			{Title: "Reward", Width: 7},
			{Title: "Hints", Width: 5},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.Stages.List(ctx, contentID, params(page))
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(s model.Stage) list.Row {
				return list.Row{ID: s.ID, Cells: []string{
					strconv.Itoa(s.Order), s.Title, s.UnlockPreset, strconv.Itoa(s.RewardPoints), strconv.Itoa(s.HintCount),
				}}
			}), nil
		},
		Delete: features.Stages.Delete,
		Actions: []list.Action{
			{Key: "w", Label: "Add stage", Emit: func(list.Row) tea.Msg {
				return openWizardMsg{contentID: contentID, title: title}
			}},
		},
	}
}

func nfcSource(features *api.API) list.Source {
	return list.Source{
		Title: "NFC Tags",
		Icon:  icons.NFC,
		Columns: []table.Column{
			{Title: "UID", Width: 16},
			{Title: "Name", Width: 24},
			{Title: "Stage", Width: 10},
			{Title: "Active", Width: 6},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.NFCTags.List(ctx, params(page))
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(t model.NFCTag) list.Row {
				return list.Row{ID: t.ID, Cells: []string{t.UID, t.Name, t.StageID, yesNo(t.Active)}}
			}), nil
		},
		Delete: features.NFCTags.Delete,
	}
}

func notificationsSource(features *api.API) list.Source {
	return list.Source{
		Title: "Notifications",
		Icon:  icons.Notification,
		Columns: []table.Column{
			{Title: "Title", Width: 28},
			{Title: "Target", Width: 8},
			{Title: "Status", Width: 10},
			{Title: "Sent", Width: 11},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.Notifications.List(ctx, api.ListParams{Page: page, Size: pageSize, Sort: "-created_at"})
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(n model.Notification) list.Row {
				return list.Row{ID: n.ID, Cells: []string{n.Title, n.Target, n.Status, shortTime(n.SentAt)}}
			}), nil
		},
		Delete: features.Notifications.Delete,
		Actions: []list.Action{
			{Key: "s", Label: "Send", Run: func(ctx context.Context, id string) error {
				_, err := features.Notifications.Send(ctx, id)
				return err
			}},
		},
	}
}

func storesSource(features *api.API) list.Source {
	return list.Source{
		Title: "Stores",
		Icon:  icons.Store,
		Columns: []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Address", Width: 32},
			{Title: "Active", Width: 6},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.Stores.List(ctx, params(page))
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(s model.Store) list.Row {
				return list.Row{ID: s.ID, Cells: []string{s.Name, s.Address, yesNo(s.Active)}}
			}), nil
		},
		Delete: features.Stores.Delete,
	}
}

func rewardsSource(features *api.API) list.Source {
	return list.Source{
		Title: "Rewards",
		Icon:  icons.Reward,
		Columns: []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Store", Width: 10},
			{Title: "Cost", Width: 7},
			{Title: "Stock", Width: 6},
			{Title: "Active", Width: 6},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.Rewards.List(ctx, params(page))
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(r model.Reward) list.Row {
				return list.Row{ID: r.ID, Cells: []string{r.Name, r.StoreID, strconv.Itoa(r.PointCost), strconv.Itoa(r.Stock), yesNo(r.Active)}}
			}), nil
		},
		Delete: features.Rewards.Delete,
	}
}

func usersSource(features *api.API) list.Source {
	setStatus := func(status string) func(ctx context.Context, id string) error {
		return func(ctx context.Context, id string) error {
			_, err := features.Users.SetStatus(ctx, id, status)
			return err
		}
	}
	return list.Source{
		Title: "Users",
		Icon:  icons.User,
		Columns: []table.Column{
			{Title: "Login ID", Width: 16},
			{Title: "Nickname", Width: 18},
			{Title: "Role", Width: 8},
			{Title: "Status", Width: 10},
			{Title: "Points", Width: 8},
		},
		PageSize: pageSize,
		Load: func(ctx context.Context, page int) (list.Page, error) {
			p, err := features.Users.List(ctx, params(page))
			if err != nil {
				return list.Page{}, err
			}
			return toPage(p, func(u model.User) list.Row {
				return list.Row{ID: u.ID, Cells: []string{u.LoginID, u.Nickname, u.Role, u.Status, fmt.Sprintf("%d", u.Points)}}
			}), nil
		},
		Actions: []list.Action{
			{Key: "x", Label: "Suspend", Run: setStatus(model.UserSuspended)},
			{Key: "a", Label: "Activate", Run: setStatus(model.UserActive)},
		},
	}
}
