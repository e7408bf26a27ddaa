// ABOUTME: Tests for the feature data clients against a fake backend
// ABOUTME: Covers query encoding, caching, invalidation, validation and the dashboard fan-out

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimguny/xpg-admin/internal/cache"
	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tokenstore"
	"github.com/kimguny/xpg-admin/internal/validate"
)

// backend is a scripted fake that records every request it sees.
type backend struct {
	mu       sync.Mutex
	requests []string
	handlers map[string]http.HandlerFunc
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/v1")
	b.mu.Lock()
	b.requests = append(b.requests, key+querySuffix(r))
	h := b.handlers[key]
	b.mu.Unlock()
	if h == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "no route " + key})
		return
	}
	h(w, r)
}

func querySuffix(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return ""
	}
	return "?" + r.URL.RawQuery
}

func (b *backend) count(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func jsonHandler(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func newTestAPI(t *testing.T, handlers map[string]http.HandlerFunc) (*API, *backend) {
	t.Helper()
	b := &backend{handlers: handlers}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("tok"))
	qc := cache.New(cache.DefaultTTL)
	t.Cleanup(qc.Close)

	return New(client.New(srv.URL+"/api/v1", store), qc), b
}

func TestContents_ListEncodesParamsAndCaches(t *testing.T) {
	var gotQuery string
	a, b := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /contents": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			jsonHandler(model.Page[model.Content]{
				Items: []model.Content{{ID: "c1", Title: "Old Town"}},
				Total: 1, Page: 1, Size: 20,
			})(w, r)
		},
	})

	active := true
	params := ListParams{Query: "town", Status: model.ContentPublished, Active: &active}

	page, err := a.Contents.List(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Old Town", page.Items[0].Title)
	assert.Equal(t, "active=true&page=1&q=town&size=20&status=published", gotQuery)

	_, err = a.Contents.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, b.count("GET /contents"), "second list must be served from cache")
}

func TestContents_CreateValidatesBeforeSending(t *testing.T) {
	a, b := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /contents": jsonHandler(model.Content{ID: "c9"}),
	})

	_, err := a.Contents.Create(context.Background(), model.ContentInput{Status: "live"})
	var verr *validate.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Contains(t, err.Error(), "Title is required")
	assert.Equal(t, 0, b.count("POST"), "invalid payload must not reach the backend")
}

func TestContents_MutationInvalidatesList(t *testing.T) {
	a, b := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /contents":  jsonHandler(model.Page[model.Content]{}),
		"POST /contents": jsonHandler(model.Content{ID: "c2", Title: "Harbor"}),
	})
	ctx := context.Background()

	_, err := a.Contents.List(ctx, ListParams{})
	require.NoError(t, err)

	created, err := a.Contents.Create(ctx, model.ContentInput{Title: "Harbor", Status: model.ContentDraft})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)

	_, err = a.Contents.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, b.count("GET /contents"), "list must be refetched after create")
}

func TestContents_UploadThumbnail(t *testing.T) {
	a, _ := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /contents/c1/thumbnail": func(w http.ResponseWriter, r *http.Request) {
			f, hdr, err := r.FormFile("file")
			if !assert.NoError(t, err) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "cover.jpg", hdr.Filename)
			assert.Equal(t, "JPEG", string(data))
			jsonHandler(model.Thumbnail{URL: "https://cdn.example/c1.jpg"})(w, r)
		},
	})

	thumb, err := a.Contents.UploadThumbnail(context.Background(), "c1", "cover.jpg", strings.NewReader("JPEG"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/c1.jpg", thumb.URL)
}

func TestStages_NestedRoutes(t *testing.T) {
	var posted model.StageInput
	a, b := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /contents/c1/stages": jsonHandler(model.Page[model.Stage]{Items: []model.Stage{{ID: "s1", Order: 1}}}),
		"POST /contents/c1/stages": func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			jsonHandler(model.Stage{ID: "s2", ContentID: "c1", Order: 2})(w, r)
		},
		"DELETE /stages/s2": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
	})
	ctx := context.Background()

	page, err := a.Stages.List(ctx, "c1", ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	in := model.StageInput{
		Order:        2,
		Title:        "Lighthouse",
		UnlockPreset: model.UnlockNFC,
		Unlock:       model.UnlockConfig{NFCTagID: "tag-7"},
		Hints:        []model.HintInput{{Order: 1, Preset: model.HintText, Text: "Look up"}},
	}
	stage, err := a.Stages.Create(ctx, "c1", in)
	require.NoError(t, err)
	assert.Equal(t, "s2", stage.ID)
	assert.Equal(t, "tag-7", posted.Unlock.NFCTagID)
	require.Len(t, posted.Hints, 1)

	require.NoError(t, a.Stages.Delete(ctx, "s2"))

	_, err = a.Stages.List(ctx, "c1", ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, b.count("GET /contents/c1/stages"))
}

func TestStages_CreateRejectsIncompleteUnlockPreset(t *testing.T) {
	a, b := newTestAPI(t, nil)

	_, err := a.Stages.Create(context.Background(), "c1", model.StageInput{
		Order: 1, Title: "Plaza", UnlockPreset: model.UnlockLocation,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required for the location unlock preset")
	assert.Equal(t, 0, b.count("POST"))
}

func TestUsers_AdjustPoints(t *testing.T) {
	var got model.PointAdjustment
	a, _ := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /users/u1/points": func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			jsonHandler(model.PointBalance{UserID: "u1", Points: 1500, Applied: got.Delta})(w, r)
		},
	})

	bal, err := a.Users.AdjustPoints(context.Background(), "u1", model.PointAdjustment{Delta: 500, Reason: "event bonus"})
	require.NoError(t, err)
	assert.Equal(t, 1500, bal.Points)
	assert.Equal(t, "event bonus", got.Reason)
}

func TestUsers_SetStatus(t *testing.T) {
	a, _ := newTestAPI(t, map[string]http.HandlerFunc{
		"PATCH /users/u1/status": func(w http.ResponseWriter, r *http.Request) {
			var in model.UserStatusInput
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			jsonHandler(model.User{ID: "u1", Status: in.Status})(w, r)
		},
	})

	u, err := a.Users.SetStatus(context.Background(), "u1", model.UserSuspended)
	require.NoError(t, err)
	assert.Equal(t, model.UserSuspended, u.Status)

	_, err = a.Users.SetStatus(context.Background(), "u1", "banished")
	assert.Error(t, err)
}

func TestNotifications_Send(t *testing.T) {
	a, b := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /notifications/n1":       jsonHandler(model.Notification{ID: "n1", Status: "draft"}),
		"POST /notifications/n1/send": jsonHandler(model.Notification{ID: "n1", Status: "sent"}),
	})
	ctx := context.Background()

	_, err := a.Notifications.Get(ctx, "n1")
	require.NoError(t, err)

	sent, err := a.Notifications.Send(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "sent", sent.Status)

	_, err = a.Notifications.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, 2, b.count("GET /notifications/n1"))
}

func TestDashboard_Overview(t *testing.T) {
	a, _ := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /dashboard/summary": jsonHandler(model.DashboardSummary{TotalUsers: 42}),
		"GET /notifications": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "-created_at", r.URL.Query().Get("sort"))
			jsonHandler(model.Page[model.Notification]{Items: []model.Notification{{ID: "n1"}}})(w, r)
		},
		"GET /users": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "-points", r.URL.Query().Get("sort"))
			assert.Equal(t, "5", r.URL.Query().Get("size"))
			jsonHandler(model.Page[model.User]{Items: []model.User{{ID: "u1", Points: 900}}})(w, r)
		},
	})

	ov, err := a.Dashboard.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, ov.Summary.TotalUsers)
	require.Len(t, ov.RecentNotifications, 1)
	require.Len(t, ov.TopUsers, 1)
	assert.Equal(t, 900, ov.TopUsers[0].Points)
}

func TestDashboard_OverviewFailsWhenAnyPartFails(t *testing.T) {
	a, _ := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /dashboard/summary": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"GET /notifications": jsonHandler(model.Page[model.Notification]{}),
		"GET /users":         jsonHandler(model.Page[model.User]{}),
	})

	_, err := a.Dashboard.Overview(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrOther)
}

func TestAuth_LoginAndMe(t *testing.T) {
	a, _ := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /auth/login": func(w http.ResponseWriter, r *http.Request) {
			var in model.LoginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			if in.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			jsonHandler(model.LoginResponse{AccessToken: "new-token", User: &model.User{ID: "a1", LoginID: in.LoginID}})(w, r)
		},
		"GET /me": jsonHandler(model.User{ID: "a1", LoginID: "admin"}),
	})
	ctx := context.Background()

	resp, err := a.Auth.Login(ctx, model.LoginRequest{LoginID: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "new-token", resp.AccessToken)
	assert.Equal(t, "admin", resp.User.LoginID)

	_, err = a.Auth.Login(ctx, model.LoginRequest{LoginID: "admin", Password: "wrong"})
	assert.True(t, client.IsUnauthorizedLogin(err))

	_, err = a.Auth.Login(ctx, model.LoginRequest{LoginID: "admin"})
	var verr *validate.ValidationError
	assert.True(t, errors.As(err, &verr))

	me, err := a.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", me.ID)
}

func TestAPI_Purge(t *testing.T) {
	a, b := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /stores/s1": jsonHandler(model.Store{ID: "s1"}),
	})
	ctx := context.Background()

	_, err := a.Stores.Get(ctx, "s1")
	require.NoError(t, err)
	a.Purge()
	_, err = a.Stores.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, b.count("GET /stores/s1"))
}

func TestContents_ListSuppressedAfterForcedLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("tok"))
	qc := cache.New(cache.DefaultTTL)
	t.Cleanup(qc.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rq := client.New(srv.URL+"/api/v1", store,
		client.WithNavigator(client.NavigatorFunc(func(context.Context) { cancel() })))
	a := New(rq, qc)

	_, err := a.Contents.List(ctx, ListParams{})
	require.Error(t, err)
	assert.True(t, client.IsSuppressed(err), "got %v", err)
	assert.ErrorIs(t, err, client.ErrSessionInvalid)

	_, ok := store.Get()
	assert.False(t, ok)
}
