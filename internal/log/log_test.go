package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("text format by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{})

		logger.Info("pool ready", "max_conns", 10)

		out := buf.String()
		if !strings.Contains(out, "pool ready") {
			t.Errorf("output missing message: %q", out)
		}
		if strings.HasPrefix(strings.TrimSpace(out), "{") {
			t.Errorf("expected text format, got JSON: %q", out)
		}
	})

	t.Run("JSON format when configured", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{JSON: true})

		logger.Info("pool ready")

		if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("level filters lower severities", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn})

		logger.Debug("dropped")
		logger.Info("dropped too")
		logger.Warn("kept")

		out := buf.String()
		if strings.Contains(out, "dropped") {
			t.Errorf("below-level entries leaked: %q", out)
		}
		if !strings.Contains(out, "kept") {
			t.Errorf("warn entry missing: %q", out)
		}
	})
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not panic.
	logger.Error("discarded")
}
