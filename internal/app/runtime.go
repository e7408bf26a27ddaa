// ABOUTME: Explicit construction of the per-session object graph
// ABOUTME: Pipeline, session controller, feature clients and query cache are built together and torn down together

package app

import (
	"fmt"
	"log/slog"

	"github.com/kimguny/xpg-admin/internal/api"
	"github.com/kimguny/xpg-admin/internal/cache"
	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/config"
	"github.com/kimguny/xpg-admin/internal/session"
	"github.com/kimguny/xpg-admin/internal/tokenstore"
)

// Runtime is everything one login episode needs. A forced logout trips the
// pipeline's guard for good, so returning to the login screen means building
// a new Runtime.
type Runtime struct {
	Pipeline *client.Client
	Session  *session.Controller
	API      *api.API
	Cache    *cache.Cache
	Store    tokenstore.Store
}

// Close releases background resources.
func (r *Runtime) Close() {
	r.Cache.Close()
}

// Factory builds a fresh Runtime whose forced logout reports to notifier and
// navigator.
type Factory func(notifier client.Notifier, navigator client.Navigator) (*Runtime, error)

// OpenStore returns the token store described by cfg. Ephemeral stores live
// only as long as the process.
func OpenStore(cfg *config.Config, ephemeral bool) tokenstore.Store {
	opts := []tokenstore.Option{
		tokenstore.WithTTL(cfg.TokenTTL),
		tokenstore.WithSecure(cfg.Production()),
	}
	if ephemeral {
		return tokenstore.NewMemory(opts...)
	}
	return tokenstore.NewFile(cfg.ConfigDir, opts...)
}

// NewFactory captures cfg, store and logger; every call to the returned
// Factory shares the store but gets its own pipeline and session.
func NewFactory(cfg *config.Config, store tokenstore.Store, logger *slog.Logger, extra ...client.Option) (Factory, error) {
	if logger == nil {
		logger = slog.Default()
	}

	base := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithRateLimit(cfg.RateLimit),
		client.WithLogger(logger),
	}
	if cfg.UserAgent != "" {
		base = append(base, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.AllProxy != "" {
		dial, err := client.SOCKS5DialContext(cfg.AllProxy)
		if err != nil {
			return nil, fmt.Errorf("configure proxy: %w", err)
		}
		base = append(base, client.WithDialContext(dial))
	}
	base = append(base, extra...)

	return func(notifier client.Notifier, navigator client.Navigator) (*Runtime, error) {
		opts := append([]client.Option{}, base...)
		if notifier != nil {
			opts = append(opts, client.WithNotifier(notifier))
		}
		if navigator != nil {
			opts = append(opts, client.WithNavigator(navigator))
		}

		pipeline := client.New(cfg.BaseURL(), store, opts...)
		qc := cache.New(cache.DefaultTTL, cache.WithLogger(logger))
		features := api.New(pipeline, qc)
		sess := session.New(store, features.Auth,
			session.WithLogger(logger),
			session.OnSessionEnd(qc.Purge),
		)
		pipeline.OnForcedLogout(sess.ForcedLogout)

		return &Runtime{
			Pipeline: pipeline,
			Session:  sess,
			API:      features,
			Cache:    qc,
			Store:    store,
		}, nil
	}, nil
}
