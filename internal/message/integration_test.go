//go:build integration

package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley/internal/message"
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
	users := user.NewStore(db, testutil.DiscardLogger())
	store := message.NewStore(db, testutil.DiscardLogger())
	ctx := context.Background()

	sender, err := users.Create(ctx, "poster", "hash")
	require.NoError(t, err)

	t.Run("post stores the message and bumps the counter", func(t *testing.T) {
		posted, err := store.Post(ctx, "general", sender.ID, "hello")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, posted.ID)
		assert.Equal(t, "general", posted.Channel)
		assert.Equal(t, sender.ID, posted.SenderID)
		assert.Equal(t, "hello", posted.Body)

		got, err := users.GetByID(ctx, sender.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.MessageCount)
	})

	t.Run("post by unknown sender leaves nothing behind", func(t *testing.T) {
		before, err := store.TotalCount(ctx)
		require.NoError(t, err)

		_, err = store.Post(ctx, "general", uuid.New(), "ghost")
		require.Error(t, err)

		after, err := store.TotalCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after,
			"the insert must roll back with the failed counter update")
	})

	t.Run("list recent returns newest first", func(t *testing.T) {
		for _, body := range []string{"first", "second", "third"} {
			_, err := store.Post(ctx, "recent", sender.ID, body)
			require.NoError(t, err)
		}

		msgs, err := store.ListRecent(ctx, "recent", 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "third", msgs[0].Body)
		assert.Equal(t, "second", msgs[1].Body)
	})

	t.Run("list since returns oldest first after the cutoff", func(t *testing.T) {
		early, err := store.Post(ctx, "since", sender.ID, "early")
		require.NoError(t, err)

		_, err = store.Post(ctx, "since", sender.ID, "late-1")
		require.NoError(t, err)
		_, err = store.Post(ctx, "since", sender.ID, "late-2")
		require.NoError(t, err)

		msgs, err := store.ListSince(ctx, "since", early.CreatedAt)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "late-1", msgs[0].Body)
		assert.Equal(t, "late-2", msgs[1].Body)
	})

	t.Run("counters and channel stats", func(t *testing.T) {
		other, err := users.Create(ctx, "other-poster", "hash")
		require.NoError(t, err)
		_, err = store.Post(ctx, "stats", other.ID, "solo")
		require.NoError(t, err)

		n, err := store.CountBySender(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		total, err := store.TotalCount(ctx)
		require.NoError(t, err)
		assert.Greater(t, total, int64(0))

		stats, err := store.ChannelStats(ctx)
		require.NoError(t, err)
		var found bool
		for _, s := range stats {
			if s.Channel == "stats" {
				found = true
				assert.Equal(t, int64(1), s.MessageCount)
				assert.WithinDuration(t, time.Now(), s.LastPostedAt, time.Minute)
			}
		}
		assert.True(t, found, "stats channel must appear in aggregates")
	})
}
