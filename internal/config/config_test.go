package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// isolate points Load at files under a temp dir and clears HIVE_* variables.
func isolate(t *testing.T) (Sources, string) {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{"HIVE_SERVER", "HIVE_TOKEN_BACKEND", "HIVE_TOKEN_PATH", "HIVE_TIMEOUT", "HIVE_LOG_LEVEL", "HIVE_LOG_FORMAT", "HIVE_FALLBACK"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return Sources{File: filepath.Join(dir, "config.yaml"), DotEnv: filepath.Join(dir, ".env")}, dir
}

func TestLoadDefaults(t *testing.T) {
	src, _ := isolate(t)
	cfg, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultClientConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	src, _ := isolate(t)
	yamlData := "server: https://yaml.example\ntoken_backend: sqlite\ntimeout: 5s\nlog_format: json\n"
	if err := os.WriteFile(src.File, []byte(yamlData), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src.DotEnv, []byte("HIVE_TOKEN_BACKEND=memory\nHIVE_FALLBACK=/login\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HIVE_SERVER", "https://env.example")
	t.Cleanup(func() {
		os.Unsetenv("HIVE_TOKEN_BACKEND")
		os.Unsetenv("HIVE_FALLBACK")
	})

	cfg, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "https://env.example" {
		t.Errorf("Server = %q, env should win over yaml", cfg.Server)
	}
	if cfg.TokenBackend != "memory" {
		t.Errorf("TokenBackend = %q, .env should win over yaml", cfg.TokenBackend)
	}
	if cfg.Timeout != 5*time.Second || cfg.LogFormat != "json" {
		t.Errorf("yaml values lost: %+v", cfg)
	}
	if cfg.Fallback != "/login" {
		t.Errorf("Fallback = %q", cfg.Fallback)
	}
}

func TestLoadBadTimeout(t *testing.T) {
	src, _ := isolate(t)
	t.Setenv("HIVE_TIMEOUT", "soon")
	if _, err := Load(src); err == nil || !strings.Contains(err.Error(), "HIVE_TIMEOUT") {
		t.Errorf("err = %v, want HIVE_TIMEOUT error", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	src, _ := isolate(t)
	os.WriteFile(src.File, []byte("server: [unterminated"), 0o600)
	if _, err := Load(src); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultClientConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg.TokenBackend = "keychain"
	cfg.LogFormat = "xml"
	cfg.Fallback = "home"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"TokenBackend must be one of", "LogFormat must be one of", "Fallback must start with"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		upgraded bool
	}{
		{"http://localhost:8000/", "http://localhost:8000", false},
		{"http://127.0.0.1:8000", "http://127.0.0.1:8000", false},
		{"http://api.hive.example/", "https://api.hive.example", true},
		{"https://api.hive.example/api//", "https://api.hive.example/api", false},
		{"  https://x.example  ", "https://x.example", false},
	}
	for _, tt := range tests {
		got, upgraded, err := NormalizeServerURL(tt.in)
		if err != nil {
			t.Errorf("NormalizeServerURL(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want || upgraded != tt.upgraded {
			t.Errorf("NormalizeServerURL(%q) = %q, %v; want %q, %v", tt.in, got, upgraded, tt.want, tt.upgraded)
		}
	}
	if _, _, err := NormalizeServerURL("  "); err == nil {
		t.Error("empty URL accepted")
	}
}

func TestFinalizeWarnsOnUpgrade(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultClientConfig()
	cfg.Server = "http://hive.example/"
	if err := cfg.Finalize(quietLogger(&buf)); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Server != "https://hive.example" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if !strings.Contains(buf.String(), "using HTTPS") {
		t.Errorf("no warning logged: %s", buf.String())
	}
}

func TestLoadMockServer(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HIVE_MOCK_ADDR", "127.0.0.1:9999")
	t.Setenv("HIVE_MOCK_SEED", "false")

	cfg, err := LoadMockServer()
	if err != nil {
		t.Fatalf("LoadMockServer: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9999" || cfg.Seed {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}
