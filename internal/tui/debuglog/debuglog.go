// ABOUTME: File-backed slog logger for the console
// ABOUTME: Keeps log output off the terminal while the TUI owns the screen

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kimguny/xpg-admin/internal/logger"
)

// FileName is the log file created in the config directory
const FileName = "debug.log"

// Open creates configDir if needed, appends to debug.log inside it and installs
// a logger writing there as the slog default. If configDir is empty, logs are
// discarded. The returned closer releases the file.
func Open(configDir, level, format string) (*slog.Logger, io.Closer, error) {
	if configDir == "" {
		return logger.Init(level, format, io.Discard), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}

	return logger.Init(level, format, f), f, nil
}
