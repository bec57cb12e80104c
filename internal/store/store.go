// Package store abstracts where model text lives. The model core works on
// strings; reading and writing them is delegated here.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes model text by path.
type Store interface {
	Read(path string) (string, error)
	Write(path, text string) error
}

// FileStore is the filesystem-backed Store.
type FileStore struct{}

// NewFileStore returns a Store over the local filesystem.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Read returns the contents of the model file at path.
func (s *FileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read model %s: %w", path, err)
	}
	return string(data), nil
}

// Write writes model text to path, creating parent directories as needed.
func (s *FileStore) Write(path, text string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write model %s: %w", path, err)
	}
	return nil
}
