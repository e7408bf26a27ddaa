// ABOUTME: Session controller: app-level authentication state and the startup restore sequence
// ABOUTME: Reacts to login, logout and the request pipeline's forced logout

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tokenstore"
	"github.com/kimguny/xpg-admin/internal/validate"
)

// Phase is the controller's state machine position.
type Phase int

const (
	Restoring Phase = iota
	Authenticated
	Unauthenticated
)

func (p Phase) String() string {
	switch p {
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a read-only snapshot of the session.
type State struct {
	User            *model.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Phase derives the state machine position from the snapshot.
func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return Restoring
	case s.IsAuthenticated:
		return Authenticated
	default:
		return Unauthenticated
	}
}

// Authenticator performs the backend calls the controller depends on.
// *api.Auth satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

// ErrNoToken is returned by Login when the backend accepted the credentials
// but sent no token.
var ErrNoToken = errors.New("login response carried no access token")

// Controller owns the session state. Safe for concurrent use.
type Controller struct {
	store  tokenstore.Store
	auth   Authenticator
	logger *slog.Logger

	mu    sync.RWMutex
	state State

	restore   singleflight.Group
	restoreMu sync.Mutex
	flight    *restoreFlight
	flightGen int

	subsMu sync.Mutex
	subs   map[int]func(State)
	nextID int

	onEnd []func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// OnSessionEnd registers fn to run whenever the session ends, by logout or
// forced logout. Used to purge cached data.
func OnSessionEnd(fn func()) Option {
	return func(c *Controller) { c.onEnd = append(c.onEnd, fn) }
}

// New returns a controller in the Restoring phase.
func New(store tokenstore.Store, auth Authenticator, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		auth:   auth,
		logger: slog.Default(),
		state:  State{IsLoading: true},
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetUser replaces the profile. A nil user means unauthenticated. Either way
// the startup check counts as resolved.
func (c *Controller) SetUser(u *model.User) {
	c.update(func(s *State) {
		s.User = u
		s.IsAuthenticated = u != nil
		s.IsLoading = false
		if u != nil {
			s.Error = ""
		}
	})
}

// SetLoading toggles the loading flag.
func (c *Controller) SetLoading(loading bool) {
	c.update(func(s *State) { s.IsLoading = loading })
}

// restoreFlight is the context shared by callers collapsed onto one profile
// fetch. It is cancelled only once every caller has given up.
type restoreFlight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Restore runs the startup check. With no stored credential it resolves to
// Unauthenticated without touching the network. Otherwise the profile is
// fetched; any failure discards the credential. Concurrent calls share one
// profile fetch, and a caller that gives up does not cancel it for the rest.
func (c *Controller) Restore(ctx context.Context) error {
	f := c.joinRestore(ctx)
	ch := c.restore.DoChan(f.key, func() (any, error) {
		return nil, c.doRestore(f.ctx)
	})
	select {
	case res := <-ch:
		c.leaveRestore(f)
		return res.Err
	case <-ctx.Done():
	}

	if !c.leaveRestore(f) {
		return ctx.Err()
	}
	// The last caller out stopped the fetch; it reports how the fetch ended.
	res := <-ch
	return res.Err
}

func (c *Controller) joinRestore(ctx context.Context) *restoreFlight {
	c.restoreMu.Lock()
	defer c.restoreMu.Unlock()
	if c.flight == nil {
		c.flightGen++
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c.flight = &restoreFlight{key: fmt.Sprintf("restore-%d", c.flightGen), ctx: fctx, cancel: cancel}
	}
	c.flight.waiters++
	return c.flight
}

// leaveRestore reports whether f's fetch was cancelled because the caller was
// the last one waiting on it.
func (c *Controller) leaveRestore(f *restoreFlight) bool {
	c.restoreMu.Lock()
	defer c.restoreMu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return false
	}
	f.cancel()
	if c.flight == f {
		c.flight = nil
	}
	return true
}

func (c *Controller) doRestore(ctx context.Context) error {
	if _, ok := c.store.Get(); !ok {
		c.logger.Debug("No stored credential, starting unauthenticated")
		c.SetUser(nil)
		return nil
	}

	c.SetLoading(true)
	user, err := c.auth.Me(ctx)
	if err != nil && ctx.Err() != nil && !client.IsSuppressed(err) {
		// Every caller left before the backend answered; the credential was never judged.
		c.logger.Debug("Restore abandoned", "error", err)
		return err
	}
	if err != nil {
		if rerr := c.store.Remove(); rerr != nil {
			c.logger.Error("Failed to remove credential", "error", rerr)
		}
		c.update(func(s *State) {
			s.User = nil
			s.IsAuthenticated = false
			s.IsLoading = false
			if !client.IsSuppressed(err) {
				s.Error = err.Error()
			}
		})
		c.logger.Info("Stored credential rejected", "error", err)
		return err
	}

	c.logger.Info("Session restored", "user", user.LoginID)
	c.SetUser(user)
	return nil
}

// Login validates creds, exchanges them for a credential, stores it and
// authenticates as the returned user. On failure the state is unchanged.
func (c *Controller) Login(ctx context.Context, creds model.LoginRequest) (*model.User, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}

	resp, err := c.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrNoToken
	}
	if err := c.store.Set(resp.AccessToken); err != nil {
		return nil, err
	}

	user := resp.User
	if user == nil {
		if user, err = c.auth.Me(ctx); err != nil {
			if rerr := c.store.Remove(); rerr != nil {
				c.logger.Error("Failed to remove credential", "error", rerr)
			}
			return nil, err
		}
	}

	c.logger.Info("Logged in", "user", user.LoginID)
	c.SetUser(user)
	return user, nil
}

// Logout discards the credential and ends the session.
func (c *Controller) Logout(context.Context) error {
	err := c.store.Remove()
	c.end()
	c.logger.Info("Logged out")
	return err
}

// ForcedLogout is the hook handed to the request pipeline. The pipeline has
// already removed the credential.
func (c *Controller) ForcedLogout() {
	c.end()
}

func (c *Controller) end() {
	c.SetUser(nil)
	for _, fn := range c.onEnd {
		fn()
	}
}

// Subscribe calls fn with every new state until the returned function is called.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *Controller) update(mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	c.subsMu.Lock()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
