// ABOUTME: Tests for JWT claim inspection
// ABOUTME: Verifies claims decode without signature checks and opaque tokens are rejected

package tokenstore

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInspect_JWT(t *testing.T) {
	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	iat := exp.Add(-7 * 24 * time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin-1",
		Issuer:    "xplayg",
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatal(err)
	}

	c, err := Inspect(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Subject != "admin-1" || c.Issuer != "xplayg" {
		t.Errorf("unexpected claims %+v", c)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("expected exp %s, got %s", exp, c.ExpiresAt)
	}
	if !c.IssuedAt.Equal(iat) {
		t.Errorf("expected iat %s, got %s", iat, c.IssuedAt)
	}
}

func TestInspect_ExpiredJWTStillDecodes(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Inspect(tok); err != nil {
		t.Errorf("expected expired token to decode, got %v", err)
	}
}

func TestInspect_Opaque(t *testing.T) {
	_, err := Inspect("opaque-session-token")
	if !errors.Is(err, ErrNotJWT) {
		t.Errorf("expected ErrNotJWT, got %v", err)
	}
}
