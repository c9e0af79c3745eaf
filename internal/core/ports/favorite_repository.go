package ports

import (
	"context"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// FavoriteRepository persists user to plant links.
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, plantID int64) (bool, error)
	// Add inserts the link; an existing link yields domain.ErrFavoriteExists.
	Add(ctx context.Context, fav domain.Favorite) error
	// Remove deletes the link; a missing link yields domain.ErrFavoriteNotFound.
	Remove(ctx context.Context, userID, plantID int64) error
	// ListPlants returns the user's favourite plants ordered by plant ID.
	ListPlants(ctx context.Context, userID int64) ([]domain.Plant, error)
}
