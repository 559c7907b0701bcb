package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the session lifetime used when callers pass a
// non-positive TTL.
const DefaultTTL = 30 * 24 * time.Hour

// Sentinel errors, checked with errors.Is().
var (
	// ErrNotFound indicates the token does not exist or has expired.
	ErrNotFound = errors.New("login session not found")

	// ErrUnknownUser indicates the session references a user that does
	// not exist.
	ErrUnknownUser = errors.New("unknown user")
)

// Session is an active login.
type Session struct {
	Token      uuid.UUID
	UserID     uuid.UUID
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastUsedAt time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant.
func (s *Session) Expired(at time.Time) bool {
	return !at.Before(s.ExpiresAt)
}

// normalizeTTL applies DefaultTTL to non-positive values.
func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
