package ports

import (
	"context"
	"time"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// Claims is the verified content of a session token.
type Claims struct {
	SubjectID int64
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(subjectID int64, role string) (string, error)
	// Validate checks signature, expiry, required claims and revocation.
	// Every failure is reported as domain.ErrUnauthorized.
	Validate(ctx context.Context, token string) (*Claims, error)
	// CurrentSubject validates the token and loads the user it was issued to.
	CurrentSubject(ctx context.Context, token string) (*domain.User, *Claims, error)
	// Revoke blocks the token until it expires.
	Revoke(ctx context.Context, claims *Claims) error
}

// RevocationStore keeps the IDs of revoked tokens until they would expire anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches digest. It only errors on a malformed digest.
	Verify(plain, digest string) (bool, error)
}
