// Package photos stores book cover photos on the filesystem.
//
// The tracker core only ever holds an opaque filename per book; all image
// bytes live here. Thread-safe for concurrent lookups from view code.
package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages cover photo filesystem operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at basePath, creating the directory
// when needed.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Save stores photo bytes under the given filename.
func (s *Storage) Save(filename string, data []byte) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("photo data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write photo file: %w", err)
	}
	return nil
}

// Get retrieves photo bytes by filename.
func (s *Storage) Get(filename string) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("photo %s not found: %w", filename, err)
		}
		return nil, fmt.Errorf("failed to read photo file: %w", err)
	}
	return data, nil
}

// Exists checks whether a photo is present.
func (s *Storage) Exists(filename string) bool {
	if filename == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes a photo. Deleting an absent photo is not an error.
func (s *Storage) Delete(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete photo file: %w", err)
	}
	return nil
}

// Path returns the full filesystem path for a stored photo.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filepath.Base(filename))
}
