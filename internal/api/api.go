// ABOUTME: Feature data clients for every admin area, built on the request pipeline
// ABOUTME: Queries are cached per path; mutations validate first and invalidate affected paths

package api

import (
	"context"

	"github.com/kimguny/xpg-admin/internal/cache"
	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
)

// Requester is the subset of the pipeline the feature clients need.
// *client.Client satisfies it.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path string, fields map[string]string, files []client.File, out any) error
}

// API groups one typed client per feature area.
type API struct {
	Auth          *Auth
	Contents      *Contents
	Stages        *Stages
	Hints         *Hints
	NFCTags       *NFCTags
	Notifications *Notifications
	Stores        *Stores
	Rewards       *Rewards
	Users         *Users
	Dashboard     *Dashboard

	cache *cache.Cache
}

// New wires every feature client to rq, sharing qc as the query cache.
func New(rq Requester, qc *cache.Cache) *API {
	c := &core{rq: rq, cache: qc}
	return &API{
		Auth:          &Auth{rq: rq},
		Contents:      &Contents{resource: newResource[model.Content, model.ContentInput](c, "/contents")},
		Stages:        &Stages{core: c},
		Hints:         &Hints{core: c},
		NFCTags:       &NFCTags{resource: newResource[model.NFCTag, model.NFCTagInput](c, "/nfc-tags")},
		Notifications: &Notifications{core: c},
		Stores:        &Stores{resource: newResource[model.Store, model.StoreInput](c, "/stores")},
		Rewards:       &Rewards{resource: newResource[model.Reward, model.RewardInput](c, "/rewards")},
		Users:         &Users{core: c},
		Dashboard:     &Dashboard{core: c},
		cache:         qc,
	}
}

// Purge drops every cached query. Called when the session ends.
func (a *API) Purge() {
	a.cache.Purge()
}
