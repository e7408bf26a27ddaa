// ABOUTME: End-to-end tests for the CLI commands against a fake backend
// ABOUTME: Covers login, whoami, resource listing, forced logout exit codes and output formatting

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kimguny/xpg-admin/internal/config"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tokenstore"
)

type fakeBackend struct {
	*httptest.Server
	expired map[string]bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{expired: map[string]bool{}}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, config.APIPrefix)
		if fb.expired[path] {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if path != "/auth/login" && r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch path {
		case "/auth/login":
			var req model.LoginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(model.LoginResponse{
				AccessToken: "tok",
				User:        &model.User{ID: "a1", LoginID: req.LoginID, Nickname: "Operator", Role: "admin"},
			})
		case "/me":
			json.NewEncoder(w).Encode(model.User{ID: "a1", LoginID: "admin", Nickname: "Operator", Role: "admin"})
		case "/contents":
			json.NewEncoder(w).Encode(model.Page[model.Content]{
				Items: []model.Content{{ID: "c1", Title: "Old Town", Status: "published", StageCount: 4}},
				Total: 1, Page: 1, Size: 20,
			})
		case "/contents/c1":
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			json.NewEncoder(w).Encode(model.Content{ID: "c1", Title: "Old Town"})
		case "/users/u1/points":
			var adj model.PointAdjustment
			json.NewDecoder(r.Body).Decode(&adj)
			json.NewEncoder(w).Encode(model.PointBalance{UserID: "u1", Points: 100 + adj.Delta, Applied: adj.Delta})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fb.Close)
	return fb
}

// useBackend points the global flags at srv and isolates the config directory
func useBackend(t *testing.T, srv *fakeBackend) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XPG_CONFIG_DIR", dir)
	t.Setenv("XPG_LOG_LEVEL", "error")
	apiOrigin = srv.URL
	t.Cleanup(func() {
		apiOrigin = ""
		jsonOutput = false
		loginID = ""
		password = ""
		pointsReason = ""
	})
	return dir
}

func storeToken(t *testing.T, dir, token string) {
	t.Helper()
	if err := tokenstore.NewFile(dir).Set(token); err != nil {
		t.Fatalf("store token: %v", err)
	}
}

func TestLogin_StoresCredential(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	loginID, password = "admin", "secret"

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runLogin)

	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Logged in as Operator (admin)") {
		t.Errorf("unexpected output %q", out.String())
	}
	if tok, ok := tokenstore.NewFile(dir).Get(); !ok || tok != "tok" {
		t.Errorf("expected stored credential, got %q %v", tok, ok)
	}
}

func TestLogin_Rejected(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	loginID, password = "admin", "wrong"

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runLogin)

	if code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
	if !strings.Contains(errOut.String(), "Invalid ID or password") {
		t.Errorf("expected credential error, got %q", errOut.String())
	}
	if _, ok := tokenstore.NewFile(dir).Get(); ok {
		t.Error("rejected login must not store a credential")
	}
}

func TestLogin_PromptsForMissingValues(t *testing.T) {
	useBackend(t, newFakeBackend(t))
	loginID = "admin"

	orig := promptCredentials
	defer func() { promptCredentials = orig }()
	prompted := false
	promptCredentials = func(creds *model.LoginRequest) error {
		prompted = true
		if creds.LoginID != "admin" {
			t.Errorf("expected login ID from flag, got %q", creds.LoginID)
		}
		creds.Password = "secret"
		return nil
	}

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runLogin)

	if !prompted {
		t.Error("expected prompt")
	}
	if code != exitOK {
		t.Errorf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
}

func TestLogin_EmptyPasswordIsUsageError(t *testing.T) {
	useBackend(t, newFakeBackend(t))

	orig := promptCredentials
	defer func() { promptCredentials = orig }()
	promptCredentials = func(creds *model.LoginRequest) error {
		creds.LoginID = "admin"
		return nil
	}

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runLogin)

	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestWhoami_SignedIn(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runWhoami)

	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Login ID:  admin") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestWhoami_NotSignedIn(t *testing.T) {
	useBackend(t, newFakeBackend(t))

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runWhoami)

	if code != exitSessionInvalid {
		t.Errorf("expected exit %d, got %d", exitSessionInvalid, code)
	}
	if !strings.Contains(out.String(), "Signed in: no") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestWhoami_RejectedCredentialIsRemoved(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "stale")

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runWhoami)

	if code != exitSessionInvalid {
		t.Errorf("expected exit %d, got %d", exitSessionInvalid, code)
	}
	if _, ok := tokenstore.NewFile(dir).Get(); ok {
		t.Error("rejected credential must be removed")
	}
}

func TestLogout_RemovesCredential(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runLogout)

	if code != exitOK {
		t.Errorf("expected exit 0, got %d", code)
	}
	if _, ok := tokenstore.NewFile(dir).Get(); ok {
		t.Error("expected credential to be removed")
	}
}

func TestContentsList_Human(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
		return runList(s, w, resourceDefs[0], nil)
	})

	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	for _, want := range []string{"Old Town", "published", "Page 1 of 1, 1 total"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestContentsList_JSON(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")
	jsonOutput = true

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
		return runList(s, w, resourceDefs[0], nil)
	})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var page model.Page[model.Content]
	if err := json.Unmarshal(out.Bytes(), &page); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "c1" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestList_RequiresCredential(t *testing.T) {
	useBackend(t, newFakeBackend(t))

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
		return runList(s, w, resourceDefs[0], nil)
	})

	if code != exitSessionInvalid {
		t.Errorf("expected exit %d, got %d", exitSessionInvalid, code)
	}
	if !strings.Contains(errOut.String(), "xpg-admin login") {
		t.Errorf("expected login hint, got %q", errOut.String())
	}
}

func TestDelete_Content(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
		return runDelete(s, w, resourceDefs[0], "c1")
	})

	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Deleted contents c1") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestForcedLogout_EndsCommand(t *testing.T) {
	fb := newFakeBackend(t)
	fb.expired["/contents"] = true
	dir := useBackend(t, fb)
	storeToken(t, dir, "tok")

	done := make(chan int, 1)
	var out, errOut bytes.Buffer
	go func() {
		done <- execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
			return runList(s, w, resourceDefs[0], nil)
		})
	}()

	select {
	case code := <-done:
		if code != exitSessionInvalid {
			t.Errorf("expected exit %d, got %d", exitSessionInvalid, code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command never ended after forced logout")
	}

	if !strings.Contains(errOut.String(), "session has expired") {
		t.Errorf("expected session expired notice, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), loginHint) {
		t.Errorf("expected login hint, got %q", errOut.String())
	}
	if strings.Contains(errOut.String(), "Error:") {
		t.Errorf("suppressed failure must not be reported again, got %q", errOut.String())
	}
	if _, ok := tokenstore.NewFile(dir).Get(); ok {
		t.Error("forced logout must remove the credential")
	}
}

func TestPoints(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
		return runPoints(s, w, "u1", "-20", "duplicate reward")
	})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Applied -20 points to u1, balance 80") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestPoints_InvalidInput(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	storeToken(t, dir, "tok")

	tests := []struct {
		name   string
		delta  string
		reason string
	}{
		{"not a number", "ten", "bonus"},
		{"zero delta", "0", "bonus"},
		{"missing reason", "10", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := execute(context.Background(), &out, &errOut, func(s *cliSession, w io.Writer) error {
				return runPoints(s, w, "u1", tt.delta, tt.reason)
			})
			if code != exitUsage {
				t.Errorf("expected exit %d, got %d (stderr %q)", exitUsage, code, errOut.String())
			}
		})
	}
}

func TestToken_ShowsClaims(t *testing.T) {
	dir := useBackend(t, newFakeBackend(t))
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "a1",
		Issuer:    "xpg",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	storeToken(t, dir, signed)

	var out, errOut bytes.Buffer
	code := execute(context.Background(), &out, &errOut, runToken)

	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Subject: a1") || !strings.Contains(out.String(), "Issuer:  xpg") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestFormatClaimsHuman(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if got := formatClaimsHuman(tokenstore.Claims{}, true, now); !strings.Contains(got, "opaque") {
		t.Errorf("expected opaque notice, got %q", got)
	}

	expired := formatClaimsHuman(tokenstore.Claims{Subject: "a1", ExpiresAt: now.Add(-time.Minute)}, false, now)
	if !strings.Contains(expired, "(expired)") {
		t.Errorf("expected expired marker, got %q", expired)
	}

	valid := formatClaimsHuman(tokenstore.Claims{Subject: "a1", ExpiresAt: now.Add(90 * time.Minute)}, false, now)
	if !strings.Contains(valid, "(in 1h30m0s)") {
		t.Errorf("expected remaining time, got %q", valid)
	}

	never := formatClaimsHuman(tokenstore.Claims{Subject: "a1"}, false, now)
	if !strings.Contains(never, "Expires: never") {
		t.Errorf("expected no expiry, got %q", never)
	}
}
