// ABOUTME: Functional options and collaborator interfaces for the request pipeline
// ABOUTME: Notifier and Navigator are supplied by the console or the one-shot CLI

package client

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds each HTTP exchange.
const DefaultTimeout = 30 * time.Second

// DefaultLoginPath identifies the login call among all requests.
const DefaultLoginPath = "/auth/login"

// Notifier shows the blocking session-expired message. Alert returns only
// once the operator has seen it.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// Navigator returns the client to its login entry point.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Alert(ctx context.Context, message string) { f(ctx, message) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped, not replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithNotifier sets the blocking notification used on forced logout.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithNavigator sets the login redirect used on forced logout.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLogoutHook registers fn to run during forced logout, after the
// credential is removed and before the operator is alerted.
func WithLogoutHook(fn func()) Option {
	return func(c *Client) { c.hooks = append(c.hooks, fn) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) { c.rateLimit = perSecond }
}

// WithDialContext replaces the network dialer, e.g. with SOCKS5DialContext.
func WithDialContext(dial DialContextFunc) Option {
	return func(c *Client) { c.dial = dial }
}

// WithLoginPath changes which request path counts as a login attempt.
func WithLoginPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithSessionExpiredMessage overrides the text shown on forced logout.
func WithSessionExpiredMessage(msg string) Option {
	return func(c *Client) {
		if msg != "" {
			c.expiredMessage = msg
		}
	}
}
