// ABOUTME: Bearer credential storage with TTL, scope and cookie-style attributes
// ABOUTME: Defines the Store interface plus shared options for file and memory implementations

package tokenstore

import (
	"net/http"
	"time"
)

// Name is the well-known key the credential is stored under.
const Name = "xpg_admin_token"

// DefaultTTL is how long a stored credential stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Store persists the single active bearer credential.
// Setting a new token overwrites the previous one.
type Store interface {
	// Set stores token with the configured TTL.
	Set(token string) error
	// Get returns the current token, or false when none is set or it expired.
	Get() (string, bool)
	// Remove deletes the token immediately. Removing an absent token is a no-op.
	Remove() error
}

// Record is the cookie-shaped form a credential is persisted in.
type Record struct {
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Path     string        `json:"path"`
	Expires  time.Time     `json:"expires"`
	Secure   bool          `json:"secure"`
	SameSite http.SameSite `json:"same_site"`
}

// Expired reports whether the record is past its expiry at now.
func (r Record) Expired(now time.Time) bool {
	return r.Value == "" || !now.Before(r.Expires)
}

// Cookie returns the record as an http.Cookie, for callers that forward it.
func (r Record) Cookie() *http.Cookie {
	return &http.Cookie{
		Name:     r.Name,
		Value:    r.Value,
		Path:     r.Path,
		Expires:  r.Expires,
		Secure:   r.Secure,
		SameSite: r.SameSite,
	}
}

type settings struct {
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func defaultSettings() settings {
	return settings{ttl: DefaultTTL, now: time.Now}
}

// newRecord builds the record for token using the store settings.
func (s settings) newRecord(token string) Record {
	return Record{
		Name:     Name,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.ttl),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Option configures a store.
type Option func(*settings)

// WithTTL overrides the credential lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSecure marks stored credentials Secure (production builds).
func WithSecure(secure bool) Option {
	return func(s *settings) { s.secure = secure }
}

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
