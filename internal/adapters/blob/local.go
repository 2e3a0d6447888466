// Package blob provides the blob-store collaborators used for lecture
// presentations and homework attachments. The workflow stores only the
// returned references.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs in a directory on disk. Used in dev mode and
// in tests.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns the store
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Put writes the blob under key and returns its reference
func (s *LocalStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	path := s.path(key)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return key, nil
}

// Get opens the blob by reference
func (s *LocalStore) Get(_ context.Context, ref string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// Delete removes the blob by reference
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	err := os.Remove(s.path(ref))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// path keeps keys inside the store directory
func (s *LocalStore) path(key string) string {
	clean := strings.ReplaceAll(filepath.Clean("/"+key), "..", "")
	return filepath.Join(s.dir, filepath.Base(clean))
}
