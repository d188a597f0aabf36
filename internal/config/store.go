package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store persists settings across reboots.
type Store interface {
	// Load reads the persisted settings. A missing file returns board
	// defaults, not an error.
	Load() (*Settings, error)

	// Save writes the settings atomically.
	Save(*Settings) error
}

// FileStore persists settings as a YAML file.
type FileStore struct {
	Path  string
	Board string
}

// NewFileStore creates a store backed by the given path, using the board
// variant for defaults when no file exists yet.
func NewFileStore(path, board string) *FileStore {
	return &FileStore{Path: path, Board: board}
}

// Load reads and parses the settings file.
func (f *FileStore) Load() (*Settings, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(f.Board), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	s := Defaults(f.Board)
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Save writes the settings to a temp file and renames it into place.
func (f *FileStore) Save(s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
