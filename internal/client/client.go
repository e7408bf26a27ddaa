// ABOUTME: Request pipeline: the single choke point for every backend call
// ABOUTME: Attaches the credential, classifies failures and runs forced logout at most once

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kimguny/xpg-admin/internal/tokenstore"
)

const defaultExpiredMessage = "Your session has expired. Please log in again."

// Client is the authenticated API client for the X-Play.G backend.
type Client struct {
	baseURL        string
	store          tokenstore.Store
	httpClient     *http.Client
	timeout        time.Duration
	notifier       Notifier
	navigator      Navigator
	logger         *slog.Logger
	rateLimit      float64
	dial           DialContextFunc
	loginPath      string
	userAgent      string
	expiredMessage string

	hooksMu sync.Mutex
	hooks   []func()

	guard logoutGuard
}

// New creates a pipeline rooted at baseURL (origin + /api/v1).
func New(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		store:          store,
		timeout:        DefaultTimeout,
		logger:         slog.Default(),
		loginPath:      DefaultLoginPath,
		userAgent:      "xpg-admin",
		expiredMessage: defaultExpiredMessage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.notifier == nil {
		c.notifier = NotifierFunc(func(_ context.Context, msg string) {
			c.logger.Warn("Session expired", "message", msg)
		})
	}
	if c.navigator == nil {
		c.navigator = NavigatorFunc(func(context.Context) {})
	}

	base := http.DefaultTransport
	if c.httpClient != nil && c.httpClient.Transport != nil {
		base = c.httpClient.Transport
	} else if c.dial != nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.DialContext = c.dial
		base = tr
	}

	hc := &http.Client{Timeout: c.timeout}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
		if hc.Timeout == 0 {
			hc.Timeout = c.timeout
		}
	}
	hc.Transport = &authTransport{
		base:      base,
		store:     store,
		limiter:   newLimiter(c.rateLimit),
		userAgent: c.userAgent,
		logger:    c.logger,
	}
	c.httpClient = hc

	return c
}

// BaseURL returns the endpoint root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnForcedLogout registers fn to run during forced logout. Used to wire the
// session controller after both are constructed.
func (c *Client) OnForcedLogout(fn func()) {
	c.hooksMu.Lock()
	c.hooks = append(c.hooks, fn)
	c.hooksMu.Unlock()
}

// Get issues GET path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues POST path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues PUT path with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues PATCH path with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends a JSON request. body and out may be nil.
//
// When the call turns out to be the first session-invalid failure of this
// pipeline, Do does not return until ctx is done; it then returns an error
// matching ErrSuppressed. See leavePending.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Kind: OtherFailure, Method: method, Path: path, Message: "failed to marshal request", Err: err}
		}
		reader = bytes.NewReader(data)
	}
	return c.send(ctx, method, path, reader, "application/json", out)
}

// outcome tells the public wrapper what to do with a handled response.
type outcome int

const (
	outcomeReturn     outcome = iota // hand the error (or nil) to the caller
	outcomeSuppressed                // forced logout ran; leave the caller pending
)

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return &RequestError{Kind: OtherFailure, Method: method, Path: path, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, method, path, err)
	}

	result, herr := c.handleResponse(ctx, req, resp, out)
	resp.Body.Close()
	if result == outcomeSuppressed {
		return leavePending(ctx, herr)
	}
	return herr
}

// handleResponse is the inbound interceptor. Successful responses are decoded
// into out; failures are classified.
func (c *Client) handleResponse(ctx context.Context, req *http.Request, resp *http.Response, out any) (outcome, error) {
	method, path := req.Method, c.relPath(req)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			io.Copy(io.Discard, resp.Body)
			return outcomeReturn, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return outcomeReturn, nil
			}
			return outcomeReturn, &RequestError{Kind: OtherFailure, Status: resp.StatusCode, Method: method, Path: path, Message: "invalid response from backend", Err: err}
		}
		return outcomeReturn, nil
	}

	rerr := &RequestError{
		Kind:    OtherFailure,
		Status:  resp.StatusCode,
		Method:  method,
		Path:    path,
		Message: decodeErrorMessage(resp.Body),
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return outcomeReturn, rerr
	}

	if c.isLoginAttempt(req) {
		rerr.Kind = AuthAttemptFailure
		return outcomeReturn, rerr
	}

	rerr.Kind = SessionInvalidFailure
	if !c.guard.trip() {
		// Another call already ran the forced logout; this caller still gets
		// a normal rejection so it can clean up its own state.
		c.logger.Debug("Session invalid after forced logout", "method", method, "path", path, "status", resp.StatusCode)
		return outcomeReturn, rerr
	}

	c.forceLogout(ctx, rerr)
	return outcomeSuppressed, rerr
}

// forceLogout removes the credential, tells the session, alerts the operator
// and navigates to login, in that order. Runs once per Client.
func (c *Client) forceLogout(ctx context.Context, cause *RequestError) {
	c.logger.Warn("Session invalid, forcing logout", "method", cause.Method, "path", cause.Path, "status", cause.Status)

	if err := c.store.Remove(); err != nil {
		c.logger.Error("Failed to remove credential", "error", err)
	}

	c.hooksMu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	// The alert and redirect belong to the session, not to this call.
	detached := context.WithoutCancel(ctx)
	c.notifier.Alert(detached, c.expiredMessage)
	c.navigator.ToLogin(detached)
}

// leavePending is the one place a call is deliberately not answered: the
// failure that tripped the forced logout was already reported globally, so its
// caller must not run its own error handling. The call blocks until the caller
// abandons it (ctx done, typically because navigation tore the screen down) and
// then returns an error matching ErrSuppressed.
func leavePending(ctx context.Context, cause error) error {
	<-ctx.Done()
	var rerr *RequestError
	errors.As(cause, &rerr)
	return &suppressedError{cause: rerr, ctx: ctx.Err()}
}

// LoggedOut reports whether this pipeline has already run its forced logout.
func (c *Client) LoggedOut() bool {
	return c.guard.tripped()
}

func (c *Client) isLoginAttempt(req *http.Request) bool {
	return strings.Contains(req.URL.Path, c.loginPath)
}

// handleRequestError converts transport and context errors to user-friendly failures
func (c *Client) handleRequestError(ctx context.Context, method, path string, err error) error {
	rerr := &RequestError{Kind: OtherFailure, Method: method, Path: path, Err: err}
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		rerr.Message = "request canceled"
		rerr.Err = ctx.Err()
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		rerr.Message = "request timed out"
		rerr.Err = ctx.Err()
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			rerr.Message = "request timed out"
		} else {
			rerr.Message = fmt.Sprintf("cannot connect to backend at %s", c.baseURL)
		}
	}
	return rerr
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// relPath reports the request path relative to the base URL, for errors.
func (c *Client) relPath(req *http.Request) string {
	p := req.URL.Path
	if i := strings.Index(c.baseURL, "://"); i >= 0 {
		if j := strings.Index(c.baseURL[i+3:], "/"); j >= 0 {
			p = strings.TrimPrefix(p, c.baseURL[i+3+j:])
		}
	}
	if req.URL.RawQuery != "" {
		p += "?" + req.URL.RawQuery
	}
	return p
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func decodeErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if body.Details != "" {
		if msg != "" {
			msg += ": "
		}
		msg += body.Details
	}
	return msg
}
