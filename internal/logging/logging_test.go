package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"msg=\"session invalidated\"", "path=/users/profile"}},
		{"json", []string{`"msg":"session invalidated"`, `"path":"/users/profile"`}},
		{"JSON", []string{`"msg":"session invalidated"`}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewLoggerWithWriter(slog.LevelInfo, tt.format, &buf).Warn("session invalidated", "path", "/users/profile")
		for _, w := range tt.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("%s: expected %s in output, got: %s", tt.format, w, buf.String())
			}
		}
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Info("should not appear")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Errorf("INFO message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestNewLoggerWithWriter_Redacts(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelDebug, "text", &buf).With("component", "apiclient")

	logger.Debug("auth", "token", "eyJhbGciOi.secret", "Authorization", "Bearer abc123", "password", "hunter2", "path", "/auth/me")

	output := buf.String()
	for _, secret := range []string{"eyJhbGciOi.secret", "abc123", "hunter2"} {
		if strings.Contains(output, secret) {
			t.Errorf("output leaks %q: %s", secret, output)
		}
	}
	if !strings.Contains(output, "component=apiclient") || !strings.Contains(output, "path=/auth/me") {
		t.Errorf("expected non-sensitive attrs in output, got: %s", output)
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger enabled at ERROR")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
