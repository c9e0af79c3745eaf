package ports

import (
	"context"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// PlantRepository defines persistence operations for catalogue entries.
type PlantRepository interface {
	// List returns a page of plants ordered by ID ascending.
	List(ctx context.Context, offset, limit int) ([]domain.Plant, error)
	ListAll(ctx context.Context) ([]domain.Plant, error)
	FindByID(ctx context.Context, id int64) (*domain.Plant, error)
	// ExistingExternalIDs returns the subset of ids already stored.
	ExistingExternalIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	// CreateBatch inserts all plants in a single transaction and returns them
	// with their assigned IDs. A unique violation yields domain.ErrPlantConflict
	// and nothing is written.
	CreateBatch(ctx context.Context, plants []domain.Plant) ([]domain.Plant, error)
	Update(ctx context.Context, plant *domain.Plant) error
	// Delete removes the plant and its favourite links.
	Delete(ctx context.Context, id int64) error
	// DeleteByIDs removes the given plants and their favourite links in one
	// transaction, returning the number of plants removed.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}
