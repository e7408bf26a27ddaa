// ABOUTME: Resource commands for every back-office feature area
// ABOUTME: list, get and delete share one builder; users and notifications add their own actions

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kimguny/xpg-admin/internal/api"
	"github.com/kimguny/xpg-admin/internal/model"
)

var (
	listPage   int
	listSize   int
	listQuery  string
	listSort   string
	listStatus string

	pointsReason string
)

// tabular is one page of records ready for either output format
type tabular struct {
	headers []string
	rows    [][]string
	total   int
	page    int
	pages   int
	raw     any
}

func tableOf[T any](p *model.Page[T], headers []string, row func(T) []string) tabular {
	rows := make([][]string, 0, len(p.Items))
	for _, item := range p.Items {
		rows = append(rows, row(item))
	}
	return tabular{headers: headers, rows: rows, total: p.Total, page: p.Page, pages: p.Pages(), raw: p}
}

// resourceDef describes the commands of one feature area. parentArg names
// the positional argument list needs before it can query, if any.
type resourceDef struct {
	name      string
	short     string
	parentArg string
	list      func(ctx context.Context, a *api.API, parent string, p api.ListParams) (tabular, error)
	get       func(ctx context.Context, a *api.API, id string) (any, error)
	remove    func(ctx context.Context, a *api.API, id string) error
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
	return t.Local().Format("2006-01-02 15:04")
}

var resourceDefs = []resourceDef{
	{
		name:  "contents",
		short: "Manage contents",
		list: func(ctx context.Context, a *api.API, _ string, p api.ListParams) (tabular, error) {
			page, err := a.Contents.List(ctx, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "Title", "Status", "Stages", "Starts", "Ends"}, func(c model.Content) []string {
				return []string{c.ID, c.Title, c.Status, strconv.Itoa(c.StageCount), shortTime(c.StartsAt), shortTime(c.EndsAt)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.Contents.Get(ctx, id)
		},
		remove: func(ctx context.Context, a *api.API, id string) error {
			return a.Contents.Delete(ctx, id)
		},
	},
	{
		name:      "stages",
		short:     "Manage the stages of a content",
		parentArg: "content-id",
		list: func(ctx context.Context, a *api.API, contentID string, p api.ListParams) (tabular, error) {
			page, err := a.Stages.List(ctx, contentID, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "Order", "Title", "Unlock", "Reward", "Hints"}, func(s model.Stage) []string {
				return []string{s.ID, strconv.Itoa(s.Order), s.Title, s.UnlockPreset, strconv.Itoa(s.RewardPoints), strconv.Itoa(s.HintCount)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.Stages.Get(ctx, id)
		},
		remove: func(ctx context.Context, a *api.API, id string) error {
			return a.Stages.Delete(ctx, id)
		},
	},
	{
		name:  "nfc-tags",
		short: "Manage NFC tags",
		list: func(ctx context.Context, a *api.API, _ string, p api.ListParams) (tabular, error) {
			page, err := a.NFCTags.List(ctx, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "UID", "Name", "Stage", "Active"}, func(t model.NFCTag) []string {
				return []string{t.ID, t.UID, t.Name, t.StageID, yesNo(t.Active)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.NFCTags.Get(ctx, id)
		},
		remove: func(ctx context.Context, a *api.API, id string) error {
			return a.NFCTags.Delete(ctx, id)
		},
	},
	{
		name:  "notifications",
		short: "Manage push notifications",
		list: func(ctx context.Context, a *api.API, _ string, p api.ListParams) (tabular, error) {
			page, err := a.Notifications.List(ctx, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "Title", "Target", "Status", "Sent"}, func(n model.Notification) []string {
				return []string{n.ID, n.Title, n.Target, n.Status, shortTime(n.SentAt)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.Notifications.Get(ctx, id)
		},
		remove: func(ctx context.Context, a *api.API, id string) error {
			return a.Notifications.Delete(ctx, id)
		},
	},
	{
		name:  "stores",
		short: "Manage partner stores",
		list: func(ctx context.Context, a *api.API, _ string, p api.ListParams) (tabular, error) {
			page, err := a.Stores.List(ctx, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "Name", "Address", "Active"}, func(s model.Store) []string {
				return []string{s.ID, s.Name, s.Address, yesNo(s.Active)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.Stores.Get(ctx, id)
		},
		remove: func(ctx context.Context, a *api.API, id string) error {
			return a.Stores.Delete(ctx, id)
		},
	},
	{
		name:  "rewards",
		short: "Manage rewards",
		list: func(ctx context.Context, a *api.API, _ string, p api.ListParams) (tabular, error) {
			page, err := a.Rewards.List(ctx, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "Name", "Store", "Cost", "Stock", "Active"}, func(r model.Reward) []string {
				return []string{r.ID, r.Name, r.StoreID, strconv.Itoa(r.PointCost), strconv.Itoa(r.Stock), yesNo(r.Active)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.Rewards.Get(ctx, id)
		},
		remove: func(ctx context.Context, a *api.API, id string) error {
			return a.Rewards.Delete(ctx, id)
		},
	},
	{
		name:  "users",
		short: "Manage player and administrator accounts",
		list: func(ctx context.Context, a *api.API, _ string, p api.ListParams) (tabular, error) {
			page, err := a.Users.List(ctx, p)
			if err != nil {
				return tabular{}, err
			}
			return tableOf(page, []string{"ID", "Login ID", "Nickname", "Role", "Status", "Points"}, func(u model.User) []string {
				return []string{u.ID, u.LoginID, u.Nickname, u.Role, u.Status, strconv.Itoa(u.Points)}
			}), nil
		},
		get: func(ctx context.Context, a *api.API, id string) (any, error) {
			return a.Users.Get(ctx, id)
		},
	},
}

func init() {
	for _, def := range resourceDefs {
		rootCmd.AddCommand(newResourceCommand(def))
	}
}

// newResourceCommand builds the parent command and its list/get/delete children
func newResourceCommand(def resourceDef) *cobra.Command {
	parent := &cobra.Command{
		Use:   def.name,
		Short: def.short,
	}

	listUse := "list"
	listArgs := cobra.NoArgs
	if def.parentArg != "" {
		listUse = fmt.Sprintf("list <%s>", def.parentArg)
		listArgs = cobra.ExactArgs(1)
	}
	listCmd := &cobra.Command{
		Use:   listUse,
		Short: "List " + def.name,
		Args:  listArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runCommand(func(s *cliSession, w io.Writer) error {
				return runList(s, w, def, args)
			})
		},
	}
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listSize, "size", 20, "Page size")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search text")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort field, prefix with - for descending")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runCommand(func(s *cliSession, w io.Writer) error {
				return runGet(s, w, def, args[0])
			})
		},
	}

	parent.AddCommand(listCmd, getCmd)

	if def.remove != nil {
		parent.AddCommand(&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one record",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				runCommand(func(s *cliSession, w io.Writer) error {
					return runDelete(s, w, def, args[0])
				})
			},
		})
	}

	switch def.name {
	case "contents":
		parent.AddCommand(newThumbnailCommand())
	case "users":
		parent.AddCommand(newPointsCommand(), newUserStatusCommand())
	case "notifications":
		parent.AddCommand(newSendCommand())
	}

	return parent
}

func currentListParams() api.ListParams {
	return api.ListParams{
		Page:   listPage,
		Size:   listSize,
		Query:  listQuery,
		Sort:   listSort,
		Status: listStatus,
	}
}

func runList(s *cliSession, w io.Writer, def resourceDef, args []string) error {
	if err := s.requireCredential(); err != nil {
		return err
	}
	parent := ""
	if len(args) > 0 {
		parent = args[0]
	}

	t, err := def.list(s.ctx, s.rt.API, parent, currentListParams())
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return writeJSON(w, t.raw)
	}
	fmt.Fprintln(w, formatTableHuman(t))
	return nil
}

// formatTableHuman renders a page as a bordered table with a paging line
func formatTableHuman(t tabular) string {
	if len(t.rows) == 0 {
		return "No records."
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.headers...).
		Rows(t.rows...)
	return fmt.Sprintf("%s\nPage %d of %d, %d total", tbl.String(), max(t.page, 1), t.pages, t.total)
}

func runGet(s *cliSession, w io.Writer, def resourceDef, id string) error {
	if err := s.requireCredential(); err != nil {
		return err
	}
	v, err := def.get(s.ctx, s.rt.API, id)
	if err != nil {
		return err
	}
	return writeJSON(w, v)
}

func runDelete(s *cliSession, w io.Writer, def resourceDef, id string) error {
	if err := s.requireCredential(); err != nil {
		return err
	}
	if err := def.remove(s.ctx, s.rt.API, id); err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, map[string]string{"deleted": id, "resource": def.name})
	}
	fmt.Fprintf(w, "Deleted %s %s\n", def.name, id)
	return nil
}

func newPointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points <id> <delta>",
		Short: "Grant or deduct points",
		Long: `Grant (positive delta) or deduct (negative delta) points with an audit reason.

Example:
  xpg-admin users points u123 -- -50 --reason "duplicate reward"`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runCommand(func(s *cliSession, w io.Writer) error {
				return runPoints(s, w, args[0], args[1], pointsReason)
			})
		},
	}
	cmd.Flags().StringVar(&pointsReason, "reason", "", "Reason recorded with the adjustment")
	return cmd
}

func runPoints(s *cliSession, w io.Writer, id, delta, reason string) error {
	n, err := strconv.Atoi(delta)
	if err != nil {
		return fmt.Errorf("%w: delta must be an integer, got %q", errUsage, delta)
	}
	if err := s.requireCredential(); err != nil {
		return err
	}

	bal, err := s.rt.API.Users.AdjustPoints(s.ctx, id, model.PointAdjustment{Delta: n, Reason: reason})
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, bal)
	}
	fmt.Fprintf(w, "Applied %+d points to %s, balance %d\n", bal.Applied, bal.UserID, bal.Points)
	return nil
}

func newUserStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <active|suspended|withdrawn>",
		Short:     "Change an account's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{model.UserActive, model.UserSuspended, model.UserWithdrawn},
		Run: func(cmd *cobra.Command, args []string) {
			runCommand(func(s *cliSession, w io.Writer) error {
				return runUserStatus(s, w, args[0], args[1])
			})
		},
	}
}

func runUserStatus(s *cliSession, w io.Writer, id, status string) error {
	if err := s.requireCredential(); err != nil {
		return err
	}
	u, err := s.rt.API.Users.SetStatus(s.ctx, id, status)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, u)
	}
	fmt.Fprintf(w, "%s is now %s\n", u.LoginID, u.Status)
	return nil
}

func newSendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <id>",
		Short: "Send a notification now",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runCommand(func(s *cliSession, w io.Writer) error {
				return runSend(s, w, args[0])
			})
		},
	}
}

func runSend(s *cliSession, w io.Writer, id string) error {
	if err := s.requireCredential(); err != nil {
		return err
	}
	n, err := s.rt.API.Notifications.Send(s.ctx, id)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, n)
	}
	fmt.Fprintf(w, "Notification %s is %s\n", n.ID, n.Status)
	return nil
}

func newThumbnailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "thumbnail <id> <image-file>",
		Short: "Upload a content's cover image",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runCommand(func(s *cliSession, w io.Writer) error {
				return runThumbnail(s, w, args[0], args[1])
			})
		},
	}
}

func runThumbnail(s *cliSession, w io.Writer, id, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	defer f.Close()

	if err := s.requireCredential(); err != nil {
		return err
	}
	thumb, err := s.rt.API.Contents.UploadThumbnail(s.ctx, id, filepath.Base(path), f)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, thumb)
	}
	fmt.Fprintf(w, "Thumbnail uploaded: %s\n", thumb.URL)
	return nil
}
