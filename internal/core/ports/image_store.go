package ports

import (
	"context"
	"io"
)

// ImageStore keeps downloaded plant images.
type ImageStore interface {
	// Save stores data under name and returns the path recorded on the plant.
	Save(ctx context.Context, name string, data []byte) (string, error)
	// Open returns the image stored under name or domain.ErrImageNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes the image at path or returns domain.ErrImageNotFound.
	Delete(ctx context.Context, path string) error
}
