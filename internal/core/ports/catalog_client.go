package ports

import (
	"context"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// FetchedImage is the raw outcome of an image download.
type FetchedImage struct {
	StatusCode  int
	ContentType string
	Data        []byte
}

// CatalogClient talks to the external plant catalogue.
type CatalogClient interface {
	// FetchPage returns the entries of a catalogue page. A non-success
	// status yields domain.ErrUpstream.
	FetchPage(ctx context.Context, page int) ([]domain.CatalogEntry, error)
	// FetchImage downloads url. Transport failures are returned as errors;
	// HTTP statuses are reported in the result.
	FetchImage(ctx context.Context, url string) (*FetchedImage, error)
	// CheckToken verifies that the configured API key is accepted.
	CheckToken(ctx context.Context) error
}
