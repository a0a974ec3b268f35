package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/config"
)

// Session is the authenticated user plus the access/refresh token pair.
// Created at login, refreshed transparently on 401, destroyed at logout or
// irrecoverable refresh failure.
type Session struct {
	User    api.User `json:"user"`
	Access  string   `json:"access_token"`
	Refresh string   `json:"refresh_token"`
}

// Store persists a session across restarts.
type Store interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// FileStore keeps the session as a JSON file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted session. A missing file yields (nil, nil).
func (f *FileStore) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt session file is not recoverable; treat as logged out.
		return nil, nil
	}
	if s.Access == "" || s.Refresh == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes the session with owner-only permissions.
func (f *FileStore) Save(s *Session) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is fine.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
