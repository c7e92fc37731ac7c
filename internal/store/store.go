// Package store persists uploaded file bytes in a single directory
// under generated names. The directory is the only durable state the
// system has; the hash registry is rebuilt from it at startup.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is a flat byte store keyed by generated filenames.
type Store struct {
	dir string
}

// New opens the store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a fresh generated name, keeping the original
// file's extension so players and content sniffers still recognize it.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return name, nil
}

// Read returns the full contents of a stored file.
func (s *Store) Read(storedName string) ([]byte, error) {
	path, err := s.Path(storedName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Open returns a reader over a stored file.
func (s *Store) Open(storedName string) (io.ReadCloser, error) {
	path, err := s.Path(storedName)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a stored file.
func (s *Store) Remove(storedName string) error {
	path, err := s.Path(storedName)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// List returns the names of every regular file in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading store dir %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Path resolves a stored name to its on-disk path. Names that would
// escape the store directory are rejected.
func (s *Store) Path(storedName string) (string, error) {
	if storedName == "" || storedName == "." || storedName == ".." || storedName != filepath.Base(storedName) {
		return "", fmt.Errorf("invalid stored name %q", storedName)
	}
	return filepath.Join(s.dir, storedName), nil
}
