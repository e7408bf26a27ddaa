// ABOUTME: In-memory request cache with TTL expiry for feature data queries
// ABOUTME: Collapses concurrent identical fetches and supports prefix invalidation after mutations

package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a query result stays fresh.
const DefaultTTL = 30 * time.Second

const cleanupInterval = 1 * time.Minute

type entry struct {
	data      any
	expiresAt time.Time
}

// Cache is safe for concurrent use. Call Close to stop the cleanup goroutine.
type Cache struct {
	store  sync.Map
	ttl    time.Duration
	group  singleflight.Group
	now    func() time.Time
	logger *slog.Logger

	stop      chan struct{}
	closeOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a cache whose entries expire after ttl (DefaultTTL if ttl <= 0).
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:    ttl,
		now:    time.Now,
		logger: slog.Default(),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.startCleanup()
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		c.logger.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if c.now().After(e.expiresAt) {
		c.store.Delete(key)
		c.logger.Debug("Cache expired", "key", key)
		return nil, false
	}

	c.logger.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Store(key, entry{data: value, expiresAt: c.now().Add(ttl)})
	c.logger.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	n := 0
	c.store.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.store.Delete(key)
			n++
		}
		return true
	})
	c.logger.Debug("Cache invalidated", "prefix", prefix, "entries", n)
}

// Purge drops everything. Called on logout so one operator never sees
// another's data.
func (c *Cache) Purge() {
	c.store.Range(func(key, _ any) bool {
		c.store.Delete(key)
		return true
	})
}

// Fetch returns the cached value for key or calls fn to produce it.
// Concurrent callers with the same key share one fn call. Errors are
// returned to every waiter and never cached.
//
// fn runs on the leading caller's ctx. A waiter that gives up returns
// ctx.Err(), except the leader once fn has started: it waits for fn so that
// whatever fn made of the cancellation reaches the caller unchanged.
func (c *Cache) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	var running atomic.Bool
	ch := c.group.DoChan(key, func() (any, error) {
		running.Store(true)
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
	}

	// Not started yet means fn will see a done ctx and never reach the backend.
	if !running.Load() {
		return nil, ctx.Err()
	}
	res := <-ch
	return res.Val, res.Err
}

// Close stops the background cleanup. Safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stop) })
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := c.now()
			c.store.Range(func(key, val any) bool {
				if now.After(val.(entry).expiresAt) {
					c.store.Delete(key)
				}
				return true
			})
		}
	}
}
