// ABOUTME: Dashboard metrics and the combined overview fetched concurrently

package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kimguny/xpg-admin/internal/model"
)

// Dashboard reads aggregate metrics.
type Dashboard struct {
	*core
}

// Summary returns the headline counters.
func (d *Dashboard) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	return fetch[model.DashboardSummary](ctx, d.core, "/dashboard/summary")
}

// Overview fetches the summary, the five latest notifications and the five
// players with the most points in parallel. The first failure cancels the rest.
func (d *Dashboard) Overview(ctx context.Context) (*model.Overview, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		summary *model.DashboardSummary
		recent  *model.Page[model.Notification]
		top     *model.Page[model.User]
	)
	g.Go(func() error {
		var err error
		summary, err = d.Summary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = list[model.Notification](gctx, d.core, "/notifications", ListParams{Size: 5, Sort: "-created_at"})
		return err
	})
	g.Go(func() error {
		var err error
		top, err = list[model.User](gctx, d.core, "/users", ListParams{Size: 5, Sort: "-points", Role: model.RolePlayer})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Overview{
		Summary:             *summary,
		RecentNotifications: recent.Items,
		TopUsers:            top.Items,
	}, nil
}
