// ABOUTME: Tests for the root command, configuration flags and exit codes
// ABOUTME: Verifies how errors map to exit codes and that every command is registered

package cmd

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/validate"
)

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("XPG_CONFIG_DIR", t.TempDir())
	t.Setenv("XPG_API_ORIGIN", "http://env.example.com")
	apiOrigin = "http://flag.example.com"
	timeout = 3 * time.Second
	defer func() {
		apiOrigin = ""
		timeout = 0
	}()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIOrigin != "http://flag.example.com" {
		t.Errorf("expected flag to override env, got %s", cfg.APIOrigin)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", cfg.Timeout)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("XPG_CONFIG_DIR", t.TempDir())
	t.Setenv("XPG_API_ORIGIN", "http://env.example.com")
	apiOrigin = ""

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIOrigin != "http://env.example.com" {
		t.Errorf("expected env origin, got %s", cfg.APIOrigin)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		wantText string
	}{
		{"success", nil, exitOK, ""},
		{"suppressed stays silent", fmt.Errorf("list: %w", client.ErrSuppressed), exitSessionInvalid, ""},
		{"session invalid", &client.RequestError{Kind: client.SessionInvalidFailure, Status: 401, Method: "GET", Path: "/me"}, exitSessionInvalid, "Error:"},
		{"not signed in", errNotSignedIn, exitSessionInvalid, "xpg-admin login"},
		{"validation", &validate.ValidationError{Problems: []string{"Reason is required"}}, exitUsage, "Reason is required"},
		{"usage", fmt.Errorf("%w: bad delta", errUsage), exitUsage, "bad delta"},
		{"backend", &client.RequestError{Kind: client.OtherFailure, Status: 500, Method: "GET", Path: "/contents"}, exitFailure, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := report(&buf, tt.err); got != tt.want {
				t.Errorf("expected exit code %d, got %d", tt.want, got)
			}
			if tt.wantText == "" && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
			if tt.wantText != "" && !bytes.Contains(buf.Bytes(), []byte(tt.wantText)) {
				t.Errorf("expected output to contain %q, got %q", tt.wantText, buf.String())
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string][]string{
		"login":         nil,
		"logout":        nil,
		"whoami":        nil,
		"token":         nil,
		"dashboard":     nil,
		"console":       nil,
		"contents":      {"list", "get", "delete", "thumbnail"},
		"stages":        {"list", "get", "delete"},
		"nfc-tags":      {"list", "get", "delete"},
		"notifications": {"list", "get", "delete", "send"},
		"stores":        {"list", "get", "delete"},
		"rewards":       {"list", "get", "delete"},
		"users":         {"list", "get", "points", "status"},
	}

	for name, subs := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
			continue
		}
		for _, sub := range subs {
			if c, _, err := cmd.Find([]string{sub}); err != nil || c.Name() != sub {
				t.Errorf("command %q has no %q subcommand", name, sub)
			}
		}
	}

	users, _, _ := rootCmd.Find([]string{"users"})
	if c, _, _ := users.Find([]string{"delete"}); c != nil && c.Name() == "delete" {
		t.Error("users must not offer delete")
	}
}
