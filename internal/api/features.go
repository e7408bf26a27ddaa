// ABOUTME: Typed clients per feature area: contents, stages, hints, NFC tags, notifications,
// ABOUTME: stores, rewards and users. Nested routes are spelled out per client

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
)

// Contents manages stories.
type Contents struct {
	*resource[model.Content, model.ContentInput]
}

// UploadThumbnail replaces the content's cover image.
func (c *Contents) UploadThumbnail(ctx context.Context, id, filename string, r io.Reader) (*model.Thumbnail, error) {
	var out model.Thumbnail
	path := itemPath(c.base, id) + "/thumbnail"
	err := c.rq.Upload(ctx, path, nil, []client.File{{Field: "file", Name: filename, Content: r}}, &out)
	c.invalidate(c.base)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Stages manages the stages of a content.
type Stages struct {
	*core
}

// List returns the stages of a content in order.
func (s *Stages) List(ctx context.Context, contentID string, p ListParams) (*model.Page[model.Stage], error) {
	return list[model.Stage](ctx, s.core, itemPath("/contents", contentID)+"/stages", p)
}

// Create registers a stage, including its unlock rule, puzzle and hints.
func (s *Stages) Create(ctx context.Context, contentID string, in model.StageInput) (*model.Stage, error) {
	return send[model.Stage](ctx, s.core, http.MethodPost, itemPath("/contents", contentID)+"/stages", in, "/contents", "/stages", "/dashboard")
}

func (s *Stages) Get(ctx context.Context, id string) (*model.Stage, error) {
	return fetch[model.Stage](ctx, s.core, itemPath("/stages", id))
}

func (s *Stages) Update(ctx context.Context, id string, in model.StageInput) (*model.Stage, error) {
	return send[model.Stage](ctx, s.core, http.MethodPut, itemPath("/stages", id), in, "/contents", "/stages")
}

func (s *Stages) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.core, itemPath("/stages", id), "/contents", "/stages", "/dashboard")
}

// Hints manages the hints of a stage.
type Hints struct {
	*core
}

func (h *Hints) List(ctx context.Context, stageID string) (*model.Page[model.Hint], error) {
	return list[model.Hint](ctx, h.core, itemPath("/stages", stageID)+"/hints", ListParams{Size: 50})
}

func (h *Hints) Create(ctx context.Context, stageID string, in model.HintInput) (*model.Hint, error) {
	return send[model.Hint](ctx, h.core, http.MethodPost, itemPath("/stages", stageID)+"/hints", in, "/stages")
}

func (h *Hints) Update(ctx context.Context, id string, in model.HintInput) (*model.Hint, error) {
	return send[model.Hint](ctx, h.core, http.MethodPut, itemPath("/hints", id), in, "/stages", "/hints")
}

func (h *Hints) Delete(ctx context.Context, id string) error {
	return remove(ctx, h.core, itemPath("/hints", id), "/stages", "/hints")
}

// NFCTags manages physical tags.
type NFCTags struct {
	*resource[model.NFCTag, model.NFCTagInput]
}

// Stores manages partner stores.
type Stores struct {
	*resource[model.Store, model.StoreInput]
}

// Rewards manages point rewards.
type Rewards struct {
	*resource[model.Reward, model.RewardInput]
}

// Notifications drafts and sends push notifications. Sent notifications are
// immutable, so there is no update.
type Notifications struct {
	*core
}

func (n *Notifications) List(ctx context.Context, p ListParams) (*model.Page[model.Notification], error) {
	return list[model.Notification](ctx, n.core, "/notifications", p)
}

func (n *Notifications) Get(ctx context.Context, id string) (*model.Notification, error) {
	return fetch[model.Notification](ctx, n.core, itemPath("/notifications", id))
}

func (n *Notifications) Create(ctx context.Context, in model.NotificationInput) (*model.Notification, error) {
	return send[model.Notification](ctx, n.core, http.MethodPost, "/notifications", in, "/notifications")
}

func (n *Notifications) Delete(ctx context.Context, id string) error {
	return remove(ctx, n.core, itemPath("/notifications", id), "/notifications")
}

// Send dispatches a drafted notification now.
func (n *Notifications) Send(ctx context.Context, id string) (*model.Notification, error) {
	var out model.Notification
	err := n.rq.Post(ctx, itemPath("/notifications", id)+"/send", nil, &out)
	n.invalidate("/notifications")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Users manages player accounts.
type Users struct {
	*core
}

func (u *Users) List(ctx context.Context, p ListParams) (*model.Page[model.User], error) {
	return list[model.User](ctx, u.core, "/users", p)
}

func (u *Users) Get(ctx context.Context, id string) (*model.User, error) {
	return fetch[model.User](ctx, u.core, itemPath("/users", id))
}

// SetStatus suspends, reactivates or withdraws an account.
func (u *Users) SetStatus(ctx context.Context, id, status string) (*model.User, error) {
	return send[model.User](ctx, u.core, http.MethodPatch, itemPath("/users", id)+"/status", model.UserStatusInput{Status: status}, "/users", "/dashboard")
}

// AdjustPoints grants or deducts points with an audit reason.
func (u *Users) AdjustPoints(ctx context.Context, id string, adj model.PointAdjustment) (*model.PointBalance, error) {
	return send[model.PointBalance](ctx, u.core, http.MethodPost, itemPath("/users", id)+"/points", adj, "/users", "/dashboard")
}
