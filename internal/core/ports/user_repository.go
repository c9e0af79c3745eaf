package ports

import (
	"context"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// UserRepository defines the persistence operations of the credential store.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// A taken username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// ListWithFavorites returns every user along with the IDs of their favourite plants.
	ListWithFavorites(ctx context.Context) ([]domain.UserWithFavorites, error)
	// Delete removes the user and the user's favourite links.
	Delete(ctx context.Context, id int64) error
}
