// Package storage holds the image store implementations: a local directory
// and an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// LocalStore keeps images as files in a single directory. Stored paths are
// the directory joined with the file name, e.g. image/77116.jpg.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir when missing and returns a store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("image directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &LocalStore{dir: filepath.Clean(dir)}, nil
}

// Save writes data to a temporary file and renames it into place so readers
// never observe a partial image.
func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	final := s.path(name)
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move image into place: %w", err)
	}
	return final, nil
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}

// Delete removes the file at path. Only the base name is used so a stored
// path can never reach outside the directory.
func (s *LocalStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(s.path(path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrImageNotFound
		}
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
