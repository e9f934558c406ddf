// Package config loads client and fake-server settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultServer is the local development API.
const DefaultServer = "http://localhost:8000"

// ClientConfig holds configuration for the hive CLI.
type ClientConfig struct {
	Server       string        `yaml:"server" validate:"required,http_url"`
	TokenBackend string        `yaml:"token_backend" validate:"oneof=file sqlite memory"`
	TokenPath    string        `yaml:"token_path"` // empty means the backend default under ~/.hive
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	LogLevel     string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat    string        `yaml:"log_format" validate:"oneof=text json"`
	Fallback     string        `yaml:"fallback" validate:"startswith=/"` // where denied views redirect
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Server:       DefaultServer,
		TokenBackend: "file",
		Timeout:      30 * time.Second,
		LogLevel:     "warn",
		LogFormat:    "text",
		Fallback:     "/",
	}
}

// MockServerConfig holds configuration for the hive-mock fake API server.
type MockServerConfig struct {
	Addr      string // Listen address (default ":8000")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	Secret    string // JWT signing key; empty uses the built-in test key
	Seed      bool   // Create demo accounts and content
}

// DefaultMockServerConfig returns sensible defaults.
func DefaultMockServerConfig() MockServerConfig {
	return MockServerConfig{
		Addr:      ":8000",
		LogLevel:  "info",
		LogFormat: "text",
		Seed:      true,
	}
}

// envOverlay lists the environment variables that override ClientConfig.
type envOverlay struct {
	Server       string `env:"HIVE_SERVER"`
	TokenBackend string `env:"HIVE_TOKEN_BACKEND"`
	TokenPath    string `env:"HIVE_TOKEN_PATH"`
	Timeout      string `env:"HIVE_TIMEOUT"`
	LogLevel     string `env:"HIVE_LOG_LEVEL"`
	LogFormat    string `env:"HIVE_LOG_FORMAT"`
	Fallback     string `env:"HIVE_FALLBACK"`
}

// Sources names where Load reads settings from.
type Sources struct {
	File   string // YAML file; empty means ~/.hive/config.yaml
	DotEnv string // .env file; empty means ./.env
}

// DefaultConfigPath returns ~/.hive/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".hive", "config.yaml"), nil
}

// Load layers defaults, the YAML file, the .env file and the environment,
// in that order. Missing files are skipped. Flags are applied by the caller,
// which then calls Finalize.
func Load(src Sources) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	path := src.File
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}

	dotenv := src.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", dotenv, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *ClientConfig) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *ClientConfig) error {
	var o envOverlay
	if err := env.Set(&o); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	setIf(&cfg.Server, o.Server)
	setIf(&cfg.TokenBackend, o.TokenBackend)
	setIf(&cfg.TokenPath, o.TokenPath)
	setIf(&cfg.LogLevel, o.LogLevel)
	setIf(&cfg.LogFormat, o.LogFormat)
	setIf(&cfg.Fallback, o.Fallback)
	if o.Timeout != "" {
		d, err := time.ParseDuration(o.Timeout)
		if err != nil {
			return fmt.Errorf("HIVE_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// LoadMockServer applies the environment (and ./.env) to the fake-server
// defaults.
func LoadMockServer() (MockServerConfig, error) {
	cfg := DefaultMockServerConfig()
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	var o struct {
		Addr      string `env:"HIVE_MOCK_ADDR"`
		LogLevel  string `env:"HIVE_MOCK_LOG_LEVEL"`
		LogFormat string `env:"HIVE_MOCK_LOG_FORMAT"`
		Secret    string `env:"HIVE_MOCK_SECRET"`
		Seed      string `env:"HIVE_MOCK_SEED"`
	}
	if err := env.Set(&o); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	setIf(&cfg.Addr, o.Addr)
	setIf(&cfg.LogLevel, o.LogLevel)
	setIf(&cfg.LogFormat, o.LogFormat)
	setIf(&cfg.Secret, o.Secret)
	if o.Seed != "" {
		cfg.Seed = o.Seed == "true" || o.Seed == "1"
	}
	return cfg, nil
}

// Finalize normalizes the server URL and validates the result.
func (c *ClientConfig) Finalize(logger *slog.Logger) error {
	server, upgraded, err := NormalizeServerURL(c.Server)
	if err != nil {
		return err
	}
	if upgraded {
		logger.Warn("server URL uses plain HTTP for a remote host; using HTTPS", "server", server)
	}
	c.Server = server
	return c.Validate()
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
