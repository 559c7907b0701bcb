package message

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/parleychat/parley/internal/postgres"
)

const messageCols = `id, channel, sender_id, body, created_at`

// messageRow mirrors the messages table for pgx struct scanning.
type messageRow struct {
	ID        uuid.UUID `db:"id"`
	Channel   string    `db:"channel"`
	SenderID  uuid.UUID `db:"sender_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (r messageRow) toMessage() *Message {
	return &Message{
		ID:        r.ID,
		Channel:   r.Channel,
		SenderID:  r.SenderID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
}

type channelStatRow struct {
	Channel      string    `db:"channel"`
	MessageCount int64     `db:"message_count"`
	LastPostedAt time.Time `db:"last_posted_at"`
}

// Store manages chat-message persistence.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     *postgres.DB
	logger *slog.Logger
}

// NewStore creates a message Store. A nil logger falls back to
// slog.Default().
func NewStore(db *postgres.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Post inserts a message and bumps the sender's message counter in one
// transaction: either both land or neither does. Concurrent posters
// updating the same counter row are the main deadlock source in this
// schema; the governor retries those transparently.
func (s *Store) Post(ctx context.Context, channel string, senderID uuid.UUID, body string) (*Message, error) {
	if err := validateChannel(channel); err != nil {
		return nil, err
	}
	if body == "" {
		return nil, ErrEmptyBody
	}

	var row messageRow
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		row, _, err = postgres.One[messageRow](ctx, tx,
			`INSERT INTO messages (channel, sender_id, body)
			 VALUES ($1, $2, $3)
			 RETURNING `+messageCols,
			channel, senderID, body)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE users SET message_count = message_count + 1 WHERE id = $1`,
			senderID)
		if err != nil {
			return fmt.Errorf("bump message count: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("bump message count for %s: %w", senderID, ErrUnknownSender)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("post message to %q: %w", channel, err)
	}

	s.logger.Debug("posted message", "id", row.ID, "channel", channel, "sender_id", senderID)
	return row.toMessage(), nil
}

// ListRecent returns up to limit messages from a channel, newest
// first.
func (s *Store) ListRecent(ctx context.Context, channel string, limit int32) ([]*Message, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := postgres.QueryMany[messageRow](ctx, s.db,
		`SELECT `+messageCols+` FROM messages
		 WHERE channel = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages in %q: %w", channel, err)
	}
	return toMessages(rows), nil
}

// ListSince returns all messages in a channel posted strictly after
// the given instant, oldest first.
func (s *Store) ListSince(ctx context.Context, channel string, since time.Time) ([]*Message, error) {
	rows, err := postgres.QueryMany[messageRow](ctx, s.db,
		`SELECT `+messageCols+` FROM messages
		 WHERE channel = $1 AND created_at > $2
		 ORDER BY created_at ASC`, channel, since)
	if err != nil {
		return nil, fmt.Errorf("list messages in %q since %v: %w", channel, since, err)
	}
	return toMessages(rows), nil
}

// CountBySender returns the number of messages a user has posted.
func (s *Store) CountBySender(ctx context.Context, senderID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithConn(ctx, func(ctx context.Context, conn postgres.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT count(*) FROM messages WHERE sender_id = $1`, senderID).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count messages by %s: %w", senderID, err)
	}
	return n, nil
}

// TotalCount returns the number of messages across all channels.
func (s *Store) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithConn(ctx, func(ctx context.Context, conn postgres.Conn) error {
		return conn.QueryRow(ctx, `SELECT count(*) FROM messages`).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// ChannelStats returns per-channel message counts and last activity,
// ordered by channel name.
func (s *Store) ChannelStats(ctx context.Context) ([]ChannelStat, error) {
	rows, err := postgres.QueryMany[channelStatRow](ctx, s.db,
		`SELECT channel, count(*) AS message_count, max(created_at) AS last_posted_at
		 FROM messages
		 GROUP BY channel
		 ORDER BY channel`)
	if err != nil {
		return nil, fmt.Errorf("channel stats: %w", err)
	}

	stats := make([]ChannelStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, ChannelStat{
			Channel:      r.Channel,
			MessageCount: r.MessageCount,
			LastPostedAt: r.LastPostedAt,
		})
	}
	return stats, nil
}

func toMessages(rows []messageRow) []*Message {
	msgs := make([]*Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, r.toMessage())
	}
	return msgs
}

func validateChannel(channel string) error {
	if channel == "" {
		return fmt.Errorf("%w: empty", ErrInvalidChannel)
	}
	if len(channel) > MaxChannelLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidChannel, len(channel), MaxChannelLength)
	}
	return nil
}
