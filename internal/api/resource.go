// ABOUTME: Generic list/get/create/update/delete plumbing shared by the feature clients
// ABOUTME: List parameters are encoded with go-querystring and double as cache keys

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/kimguny/xpg-admin/internal/cache"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/validate"
)

// DefaultPageSize is used when ListParams.Size is zero.
const DefaultPageSize = 20

// ListParams filters and pages a list endpoint. Zero fields are omitted.
type ListParams struct {
	Page      int    `url:"page,omitempty"`
	Size      int    `url:"size,omitempty"`
	Query     string `url:"q,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Status    string `url:"status,omitempty"`
	Role      string `url:"role,omitempty"`
	StoreID   string `url:"store_id,omitempty"`
	ContentID string `url:"content_id,omitempty"`
	Active    *bool  `url:"active,omitempty"`
}

func (p ListParams) withDefaults() ListParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

// core holds what every feature client shares.
type core struct {
	rq    Requester
	cache *cache.Cache
}

func listPath(base string, p ListParams) (string, error) {
	v, err := query.Values(p.withDefaults())
	if err != nil {
		return "", fmt.Errorf("encode list params: %w", err)
	}
	return base + "?" + v.Encode(), nil
}

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

// fetch runs a cached GET of path into a fresh T.
func fetch[T any](ctx context.Context, c *core, path string) (*T, error) {
	v, err := c.cache.Fetch(ctx, path, func(ctx context.Context) (any, error) {
		out := new(T)
		if err := c.rq.Get(ctx, path, out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	out, ok := v.(*T)
	if !ok {
		c.cache.Clear(path)
		return nil, fmt.Errorf("cached %s holds %T", path, v)
	}
	return out, nil
}

func list[T any](ctx context.Context, c *core, base string, p ListParams) (*model.Page[T], error) {
	path, err := listPath(base, p)
	if err != nil {
		return nil, err
	}
	return fetch[model.Page[T]](ctx, c, path)
}

// send validates in, issues the mutation and invalidates the given prefixes.
func send[T any](ctx context.Context, c *core, method, path string, in any, invalidate ...string) (*T, error) {
	if in != nil {
		if err := validate.Struct(in); err != nil {
			return nil, err
		}
	}

	out := new(T)
	var err error
	switch method {
	case http.MethodPost:
		err = c.rq.Post(ctx, path, in, out)
	case http.MethodPut:
		err = c.rq.Put(ctx, path, in, out)
	case http.MethodPatch:
		err = c.rq.Patch(ctx, path, in, out)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
	c.invalidate(invalidate...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func remove(ctx context.Context, c *core, path string, invalidate ...string) error {
	err := c.rq.Delete(ctx, path, nil)
	c.invalidate(invalidate...)
	return err
}

func (c *core) invalidate(prefixes ...string) {
	for _, p := range prefixes {
		c.cache.InvalidatePrefix(strings.TrimRight(p, "/"))
	}
}

// resource is a flat REST collection: base and base/{id}.
type resource[T, W any] struct {
	*core
	base string
}

func newResource[T, W any](c *core, base string) *resource[T, W] {
	return &resource[T, W]{core: c, base: base}
}

// List returns one page of the collection.
func (r *resource[T, W]) List(ctx context.Context, p ListParams) (*model.Page[T], error) {
	return list[T](ctx, r.core, r.base, p)
}

// Get returns one item.
func (r *resource[T, W]) Get(ctx context.Context, id string) (*T, error) {
	return fetch[T](ctx, r.core, itemPath(r.base, id))
}

// Create validates in and registers a new item.
func (r *resource[T, W]) Create(ctx context.Context, in W) (*T, error) {
	return send[T](ctx, r.core, http.MethodPost, r.base, in, r.base, "/dashboard")
}

// Update validates in and replaces the item.
func (r *resource[T, W]) Update(ctx context.Context, id string, in W) (*T, error) {
	return send[T](ctx, r.core, http.MethodPut, itemPath(r.base, id), in, r.base)
}

// Delete removes the item.
func (r *resource[T, W]) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.core, itemPath(r.base, id), r.base, "/dashboard")
}
