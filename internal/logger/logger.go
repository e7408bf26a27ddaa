// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Provides Init() to configure the default logger with level, format and output.

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
// A nil writer logs to stderr so command output on stdout stays machine readable.
func Init(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
