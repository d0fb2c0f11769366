// Package cursor persists the id of the newest article that has already
// been delivered. The cursor is a single id in a plain text file, so it can
// be inspected or reset with nothing fancier than cat and rm.
package cursor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the cursor file.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path. The file and its
// parent directory are created on first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the saved cursor id, or "" when no cursor has been saved
// yet. A missing file is not an error; anything else is.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// First run, nothing delivered yet.
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to read cursor file %s: %w", s.path, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// Save replaces the cursor with id, creating the parent directory if
// needed.
func (s *Store) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create cursor directory: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write cursor file %s: %w", s.path, err)
	}

	return nil
}
