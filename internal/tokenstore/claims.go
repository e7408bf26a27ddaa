// ABOUTME: Decodes JWT claims from a stored credential for display
// ABOUTME: No signature validation; the backend remains the authority on validity

package tokenstore

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by Inspect for opaque credentials.
var ErrNotJWT = errors.New("credential is not a JWT")

// Claims is the displayable subset of a JWT credential.
type Claims struct {
	Subject   string    `json:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Inspect parses token claims without verifying the signature.
func Inspect(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, _, err := jwt.NewParser(jwt.WithoutClaimsValidation()).ParseUnverified(token, &rc)
	if err != nil {
		return Claims{}, ErrNotJWT
	}

	c := Claims{Subject: rc.Subject, Issuer: rc.Issuer}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
