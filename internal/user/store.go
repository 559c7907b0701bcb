package user

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

// userCols is the standard SELECT column list for userRow.
const userCols = `id, name, password_hash, admin, message_count, created_at, last_seen_at`

// userRow mirrors the users table for pgx struct scanning.
type userRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Admin        bool      `db:"admin"`
	MessageCount int32     `db:"message_count"`
	CreatedAt    time.Time `db:"created_at"`
	LastSeenAt   time.Time `db:"last_seen_at"`
}

func (r userRow) toUser() *User {
	return &User{
		ID:           r.ID,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Admin:        r.Admin,
		MessageCount: int(r.MessageCount),
		CreatedAt:    r.CreatedAt,
		LastSeenAt:   r.LastSeenAt,
	}
}

// Store manages user persistence.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     *postgres.DB
	logger *slog.Logger
}

// NewStore creates a user Store. A nil logger falls back to
// slog.Default().
func NewStore(db *postgres.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Create registers a new user with the given opaque password hash.
// Returns ErrNameTaken if the name is already registered.
func (s *Store) Create(ctx context.Context, name, passwordHash string) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	row, _, err := postgres.QueryOne[userRow](ctx, s.db,
		`INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING `+userCols,
		name, passwordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("create user %q: %w", name, ErrNameTaken)
		}
		return nil, fmt.Errorf("create user %q: %w", name, err)
	}

	s.logger.Debug("created user", "id", row.ID, "name", name)
	return row.toUser(), nil
}

// GetByID retrieves a user by ID. Returns ErrNotFound if it does not
// exist.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row, found, err := postgres.QueryOne[userRow](ctx, s.db,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("get user %s: %w", id, ErrNotFound)
	}
	return row.toUser(), nil
}

// GetByName retrieves a user by name. Returns ErrNotFound if it does
// not exist.
func (s *Store) GetByName(ctx context.Context, name string) (*User, error) {
	row, found, err := postgres.QueryOne[userRow](ctx, s.db,
		`SELECT `+userCols+` FROM users WHERE name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", name, err)
	}
	if !found {
		return nil, fmt.Errorf("get user %q: %w", name, ErrNotFound)
	}
	return row.toUser(), nil
}

// UpdatePasswordHash replaces the stored hash for a user.
func (s *Store) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password for user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update password for user %s: %w", id, ErrNotFound)
	}
	return nil
}

// TouchLastSeen records activity for a user.
func (s *Store) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET last_seen_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("touch user %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the total number of registered users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithConn(ctx, func(ctx context.Context, conn postgres.Conn) error {
		return conn.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// validateName rejects empty and oversized names. Anything further
// (allowed characters, profanity) belongs to the calling layer.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidName, len(name), MaxNameLength)
	}
	return nil
}
