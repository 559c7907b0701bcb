package user

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain name", input: "alice"},
		{name: "unicode name", input: "アリス"},
		{name: "max length", input: strings.Repeat("a", MaxNameLength)},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Errorf("error = %v, want ErrInvalidName", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserRow_ToUser(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	row := userRow{
		ID:           id,
		Name:         "alice",
		PasswordHash: "$2a$10$opaque",
		Admin:        true,
		MessageCount: 42,
		CreatedAt:    now.Add(-time.Hour),
		LastSeenAt:   now,
	}

	u := row.toUser()
	if u.ID != id || u.Name != "alice" || u.PasswordHash != "$2a$10$opaque" {
		t.Errorf("identity fields wrong: %+v", u)
	}
	if !u.Admin || u.MessageCount != 42 {
		t.Errorf("flags wrong: %+v", u)
	}
	if !u.CreatedAt.Equal(now.Add(-time.Hour)) || !u.LastSeenAt.Equal(now) {
		t.Errorf("timestamps wrong: %+v", u)
	}
}
