// ABOUTME: Outbound interception: bearer credential, request id, rate limit and logging
// ABOUTME: Runs inside RoundTrip so the credential is read immediately before dispatch

package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kimguny/xpg-admin/internal/tokenstore"
)

// authTransport decorates every outbound request.
type authTransport struct {
	base      http.RoundTripper
	store     tokenstore.Store
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	if token, ok := t.store.Get(); ok {
		out.Header.Set("Authorization", "Bearer "+token)
	} else {
		out.Header.Del("Authorization")
	}
	requestID := uuid.NewString()
	out.Header.Set("X-Request-ID", requestID)
	if t.userAgent != "" {
		out.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	if err != nil {
		t.logger.Debug("Request failed",
			"request_id", requestID,
			"method", out.Method,
			"path", out.URL.Path,
			"latency_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	t.logger.Debug("Request completed",
		"request_id", requestID,
		"method", out.Method,
		"path", out.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
