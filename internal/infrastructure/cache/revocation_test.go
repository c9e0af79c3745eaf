package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRevocationStore(t *testing.T) {
	store := NewRevocationStore(0)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "a", time.Minute))
	revoked, _ = store.IsRevoked(ctx, "a")
	assert.True(t, revoked)

	require.NoError(t, store.Revoke(ctx, "b", 0))
	revoked, _ = store.IsRevoked(ctx, "b")
	assert.False(t, revoked, "a non-positive ttl means the token already expired")
}

func TestRevocationStore_EntriesExpire(t *testing.T) {
	store := NewRevocationStore(0)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "short", 20*time.Millisecond))
	assert.Eventually(t, func() bool {
		revoked, _ := store.IsRevoked(ctx, "short")
		return !revoked
	}, time.Second, 10*time.Millisecond)
}
