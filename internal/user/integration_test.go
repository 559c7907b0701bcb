//go:build integration

package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley/internal/postgres"
	"github.com/parleychat/parley/internal/testutil"
	"github.com/parleychat/parley/internal/user"
)

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	container, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	db := postgres.New(postgres.NewPool(container.Pool), testutil.DiscardLogger())
	store := user.NewStore(db, testutil.DiscardLogger())
	ctx := context.Background()

	t.Run("create and fetch round-trip", func(t *testing.T) {
		created, err := store.Create(ctx, "alice", "hash-1")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "alice", created.Name)
		assert.Equal(t, "hash-1", created.PasswordHash)
		assert.False(t, created.Admin)
		assert.Zero(t, created.MessageCount)
		assert.False(t, created.CreatedAt.IsZero())

		byID, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byID.ID)
		assert.Equal(t, "alice", byID.Name)

		byName, err := store.GetByName(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := store.Create(ctx, "bob", "hash-1")
		require.NoError(t, err)

		_, err = store.Create(ctx, "bob", "hash-2")
		require.ErrorIs(t, err, user.ErrNameTaken)
	})

	t.Run("unknown lookups return not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, user.ErrNotFound)

		_, err = store.GetByName(ctx, "nobody")
		require.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("update password hash", func(t *testing.T) {
		created, err := store.Create(ctx, "carol", "old-hash")
		require.NoError(t, err)

		require.NoError(t, store.UpdatePasswordHash(ctx, created.ID, "new-hash"))

		got, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		err = store.UpdatePasswordHash(ctx, uuid.New(), "x")
		require.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("touch last seen advances the timestamp", func(t *testing.T) {
		created, err := store.Create(ctx, "dave", "hash")
		require.NoError(t, err)

		require.NoError(t, store.TouchLastSeen(ctx, created.ID))

		got, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.LastSeenAt.Before(created.LastSeenAt))

		err = store.TouchLastSeen(ctx, uuid.New())
		require.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("count reflects registrations", func(t *testing.T) {
		before, err := store.Count(ctx)
		require.NoError(t, err)

		_, err = store.Create(ctx, "erin", "hash")
		require.NoError(t, err)

		after, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})
}
