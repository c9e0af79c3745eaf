package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

const defaultTokenTTL = 30 * time.Minute

// tokenClaims is the JWT payload: sub carries the user ID, role the user's role.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	users   ports.UserRepository
	revoked ports.RevocationStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewTokenService(
	secret string,
	ttl time.Duration,
	users ports.UserRepository,
	revoked ports.RevocationStore,
	log zerolog.Logger,
) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret:  []byte(secret),
		ttl:     ttl,
		users:   users,
		revoked: revoked,
		log:     log,
		now:     time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(subjectID int64, role string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Validate(ctx context.Context, token string) (*ports.Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	subjectID, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	if !domain.ValidRole(tc.Role) {
		return nil, fmt.Errorf("%w: missing role", domain.ErrUnauthorized)
	}

	claims := &ports.Claims{
		SubjectID: subjectID,
		Role:      tc.Role,
		TokenID:   tc.ID,
		ExpiresAt: tc.ExpiresAt.Time,
	}

	if claims.TokenID != "" && s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			// The user lookup in CurrentSubject still applies; a revocation
			// store outage must not lock every user out.
			s.log.Warn().Err(err).Str("jti", claims.TokenID).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
		}
	}

	return claims, nil
}

func (s *TokenService) CurrentSubject(ctx context.Context, token string) (*domain.User, *ports.Claims, error) {
	claims, err := s.Validate(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("load token subject: %w", err)
	}
	return user, claims, nil
}

func (s *TokenService) Revoke(ctx context.Context, claims *ports.Claims) error {
	if claims == nil || claims.TokenID == "" || s.revoked == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
