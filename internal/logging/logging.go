// Package logging builds the slog loggers used by the hive commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "[REDACTED]"

var sensitiveKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"authorization": true,
	"password":      true,
}

// NewLogger creates a logger writing to stderr; stdout carries command output.
//
// format is "text" (human-readable) or "json" (structured).
func NewLogger(level slog.Level, format string) *slog.Logger {
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to the given writer.
// Attributes named token, access_token, authorization or password are
// always redacted.
func NewLoggerWithWriter(level slog.Level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redact}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func redact(groups []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// ParseLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
