package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore abstracts where decoded image bytes end up. The application only
// ever needs save/remove by filename; retrieval happens through the static
// /uploads route.
type BlobStore interface {
	Save(fileName string, data []byte) error
	Remove(fileName string) error
	Exists(fileName string) bool
	URL(fileName string) string
}

// LocalStore is a BlobStore backed by a directory on the local filesystem.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a store
// rooted at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the blob under the store's directory. The file name is always
// composed by the caller; paths are flattened to keep writes inside the
// upload directory.
func (s *LocalStore) Save(fileName string, data []byte) error {
	path := filepath.Join(s.dir, filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", fileName, err)
	}
	return nil
}

// Remove deletes a blob. A missing file is reported as an error so callers
// can record it as a warning, but it is never fatal for them.
func (s *LocalStore) Remove(fileName string) error {
	path := filepath.Join(s.dir, filepath.Base(fileName))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", fileName, err)
	}
	return nil
}

// Exists reports whether a blob is present on disk.
func (s *LocalStore) Exists(fileName string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(fileName)))
	return err == nil
}

// URL returns the public path a stored blob is served from.
func (s *LocalStore) URL(fileName string) string {
	return "/uploads/" + filepath.Base(fileName)
}
