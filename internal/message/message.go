// Package message provides persistence for chat messages and their
// aggregates.
package message

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors, checked with errors.Is().
var (
	// ErrUnknownSender indicates the sender does not exist.
	ErrUnknownSender = errors.New("unknown sender")

	// ErrEmptyBody indicates an empty message body.
	ErrEmptyBody = errors.New("empty message body")

	// ErrInvalidChannel indicates an empty or oversized channel name.
	ErrInvalidChannel = errors.New("invalid channel name")
)

// MaxChannelLength is the maximum length of a channel name in bytes.
const MaxChannelLength = 128

// Message is a single chat message.
type Message struct {
	ID        uuid.UUID
	Channel   string
	SenderID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

// ChannelStat aggregates one channel's activity.
type ChannelStat struct {
	Channel      string
	MessageCount int64
	LastPostedAt time.Time
}
