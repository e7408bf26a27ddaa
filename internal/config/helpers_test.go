// ABOUTME: Test helpers for config tests
// ABOUTME: Isolates XPG_* environment variables and the config directory per test

package config

import (
	"os"
	"strings"
	"testing"
)

// withCleanEnv unsets every XPG_* variable, points the config directory at a
// temp dir and sets any extra variables. t.Setenv restores everything afterwards.
func withCleanEnv(t *testing.T, extra map[string]string) string {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "XPG_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	dir := t.TempDir()
	t.Setenv("XPG_CONFIG_DIR", dir)
	for k, v := range extra {
		t.Setenv(k, v)
	}
	return dir
}
