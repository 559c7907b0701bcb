package session

import (
	"testing"
	"time"
)

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	sess := &Session{ExpiresAt: now}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "before expiry", at: now.Add(-time.Second), want: false},
		{name: "exactly at expiry", at: now, want: true},
		{name: "after expiry", at: now.Add(time.Second), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sess.Expired(tt.at); got != tt.want {
				t.Errorf("Expired(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestNormalizeTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{name: "positive kept", ttl: time.Hour, want: time.Hour},
		{name: "zero defaults", ttl: 0, want: DefaultTTL},
		{name: "negative defaults", ttl: -time.Minute, want: DefaultTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTTL(tt.ttl); got != tt.want {
				t.Errorf("normalizeTTL(%v) = %v, want %v", tt.ttl, got, tt.want)
			}
		})
	}
}
