package ports

import (
	"context"
	"io"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// IngestionResult is returned by a random-page ingestion.
type IngestionResult struct {
	Page   int
	Plants []domain.Plant
}

// IngestionService fills the catalogue from the external API.
type IngestionService interface {
	// IngestRandom adds up to n new plants from a random catalogue page.
	IngestRandom(ctx context.Context, n int) (*IngestionResult, error)
	CheckUpstream(ctx context.Context) error
	// RecentRuns returns the latest recorded ingestion runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]domain.IngestionRun, error)
}

// PlantService covers catalogue browsing and maintenance.
type PlantService interface {
	List(ctx context.Context, offset, limit int) ([]domain.Plant, error)
	Update(ctx context.Context, id int64, patch domain.PlantPatch) (*domain.Plant, error)
	// Delete removes the plant and its stored image.
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every plant and every stored image.
	DeleteAll(ctx context.Context) (int64, error)
	OpenImage(ctx context.Context, name string) (io.ReadCloser, error)
}

// FavoriteService manages a user's favourite plants.
type FavoriteService interface {
	Add(ctx context.Context, userID, plantID int64) error
	Remove(ctx context.Context, userID, plantID int64) error
	List(ctx context.Context, userID int64) ([]domain.FavoritePlant, error)
}
