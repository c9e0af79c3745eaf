package ports

import (
	"context"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService covers account registration, login and the admin user surface.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	CreateUser(ctx context.Context, username, password, role string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.UserWithFavorites, error)
	DeleteUser(ctx context.Context, id int64) error
}
