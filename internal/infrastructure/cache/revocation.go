// Package cache provides the in-process token revocation store used when no
// Redis instance is configured. Revocations are lost on restart.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RevocationStore implements ports.RevocationStore with go-cache.
type RevocationStore struct {
	items *gocache.Cache
}

// NewRevocationStore creates a store whose expired entries are purged every
// cleanupInterval. A zero interval disables the background janitor.
func NewRevocationStore(cleanupInterval time.Duration) *RevocationStore {
	return &RevocationStore{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *RevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.items.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (s *RevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := s.items.Get(tokenID)
	return found, nil
}
