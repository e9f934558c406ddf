package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const credentialsFileName = "credentials.json"

type credentials struct {
	AccessToken string `json:"access_token"`
}

// FileBackend stores the token in a JSON credentials file readable only by
// the current user.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// DefaultCredentialsPath returns ~/.hive/credentials.json.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".hive", credentialsFileName), nil
}

// Path returns the credentials file location.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Load(ctx context.Context) (string, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credentials: %w", err)
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", false, fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	tok := strings.TrimSpace(creds.AccessToken)
	return tok, tok != "", nil
}

// Save writes to a temporary file and renames it over the old one, so a
// reader never sees a partially written token.
func (f *FileBackend) Save(ctx context.Context, token string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(credentials{AccessToken: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

func (f *FileBackend) Delete(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }
