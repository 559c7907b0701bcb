// Package user provides persistence for chat accounts.
//
// Password hashing happens elsewhere; this package stores and returns
// opaque hashes.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors, checked with errors.Is().
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrNameTaken indicates the user name is already registered.
	ErrNameTaken = errors.New("user name already taken")

	// ErrInvalidName indicates an empty or oversized user name.
	ErrInvalidName = errors.New("invalid user name")
)

// MaxNameLength is the maximum length of a user name in bytes.
const MaxNameLength = 64

// User is a chat account.
type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string // opaque; hashing is the caller's concern
	Admin        bool
	MessageCount int
	CreatedAt    time.Time
	LastSeenAt   time.Time
}
