package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps uploaded images on local disk. Used when no S3 bucket
// is configured; references are paths under /uploads served statically.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the store and its directory.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the bytes to disk and returns the serving path.
func (s *LocalStore) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
