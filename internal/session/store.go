package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parleychat/parley/internal/postgres"
)

const sessionCols = `token, user_id, created_at, expires_at, last_used_at`

// sessionRow mirrors the login_sessions table for pgx struct scanning.
type sessionRow struct {
	Token      uuid.UUID `db:"token"`
	UserID     uuid.UUID `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
	ExpiresAt  time.Time `db:"expires_at"`
	LastUsedAt time.Time `db:"last_used_at"`
}

func (r sessionRow) toSession() *Session {
	return &Session{
		Token:      r.Token,
		UserID:     r.UserID,
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
		LastUsedAt: r.LastUsedAt,
	}
}

// Store manages login-session persistence.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     *postgres.DB
	logger *slog.Logger
}

// NewStore creates a session Store. A nil logger falls back to
// slog.Default().
func NewStore(db *postgres.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Create opens a new login session for userID with the given TTL
// (DefaultTTL when non-positive). The token is generated server-side.
// Returns ErrUnknownUser if the user does not exist.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*Session, error) {
	ttl = normalizeTTL(ttl)

	row, _, err := postgres.QueryOne[sessionRow](ctx, s.db,
		`INSERT INTO login_sessions (user_id, expires_at)
		 VALUES ($1, now() + $2::interval)
		 RETURNING `+sessionCols,
		userID, ttl)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("create session for user %s: %w", userID, ErrUnknownUser)
		}
		return nil, fmt.Errorf("create session for user %s: %w", userID, err)
	}

	s.logger.Debug("created login session", "user_id", userID, "expires_at", row.ExpiresAt)
	return row.toSession(), nil
}

// Get retrieves a live session by token. Expired or unknown tokens
// both return ErrNotFound.
func (s *Store) Get(ctx context.Context, token uuid.UUID) (*Session, error) {
	row, found, err := postgres.QueryOne[sessionRow](ctx, s.db,
		`SELECT `+sessionCols+` FROM login_sessions
		 WHERE token = $1 AND expires_at > now()`, token)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("get session: %w", ErrNotFound)
	}
	return row.toSession(), nil
}

// Touch records activity on a live session.
func (s *Store) Touch(ctx context.Context, token uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE login_sessions SET last_used_at = now()
		 WHERE token = $1 AND expires_at > now()`, token)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("touch session: %w", ErrNotFound)
	}
	return nil
}

// Delete logs a session out. Deleting an unknown token returns
// ErrNotFound so callers can distinguish a double logout.
func (s *Store) Delete(ctx context.Context, token uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM login_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete session: %w", ErrNotFound)
	}
	return nil
}

// PruneExpired deletes all expired sessions and reports how many were
// removed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM login_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("prune expired sessions: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		s.logger.Debug("pruned expired sessions", "count", n)
		return n, nil
	}
	return 0, nil
}
