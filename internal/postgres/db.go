package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RetryConfig bounds the deadlock retry loop.
//
// The retry budget exists because deadlock aborts are expected to be
// rare and transient; under sustained contention the final deadlock
// error surfaces to the caller instead of looping forever.
type RetryConfig struct {
	MaxAttempts    int           // Total attempts, including the first
	InitialBackoff time.Duration // Backoff before the first retry
	MaxBackoff     time.Duration // Backoff ceiling
}

// DefaultRetryConfig returns the retry budget used when none is
// configured: four attempts with exponential backoff from 5ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    4,
		InitialBackoff: 5 * time.Millisecond,
		MaxBackoff:     250 * time.Millisecond,
	}
}

// DB runs work units against pooled connections.
//
// DB is safe for concurrent use by multiple goroutines; concurrent
// callers hold distinct connections and coordinate only through the
// pool.
type DB struct {
	pool   Pool
	logger *slog.Logger
	retry  RetryConfig
	tracer trace.Tracer
}

// Option configures a DB.
type Option func(*DB)

// WithRetryConfig overrides the deadlock retry budget.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(db *DB) {
		if cfg.MaxAttempts > 0 {
			db.retry = cfg
		}
	}
}

// WithTracer enables a span per governor invocation.
func WithTracer(tracer trace.Tracer) Option {
	return func(db *DB) {
		db.tracer = tracer
	}
}

// New creates a DB over the given pool.
// A nil logger falls back to slog.Default().
func New(pool Pool, logger *slog.Logger, opts ...Option) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	db := &DB{
		pool:   pool,
		logger: logger,
		retry:  DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// WithConn leases a connection, runs fn against it, and guarantees the
// lease is returned exactly once per attempt:
//
//   - fn succeeds: the connection is released healthy.
//   - fn fails with a DiscardError: the physical connection is dropped
//     and the error propagates.
//   - fn fails with a deadlock abort: the connection is released
//     healthy and the whole operation retries from a fresh acquire,
//     after a backoff, up to the configured attempt budget.
//   - any other failure: the connection is released healthy and the
//     error propagates unchanged.
func (db *DB) WithConn(ctx context.Context, fn func(ctx context.Context, conn Conn) error) error {
	var span trace.Span
	if db.tracer != nil {
		ctx, span = db.tracer.Start(ctx, "postgres.with_conn")
		defer span.End()
	}

	delay := db.retry.InitialBackoff
	if delay <= 0 {
		delay = DefaultRetryConfig().InitialBackoff
	}

	for attempt := 1; ; attempt++ {
		err := db.runOnce(ctx, fn)
		if err == nil {
			if span != nil {
				span.SetAttributes(attribute.Int("db.attempts", attempt))
			}
			return nil
		}
		if !deadlockDetected(err) {
			if span != nil {
				span.SetStatus(codes.Error, err.Error())
				span.RecordError(err)
			}
			return err
		}
		if attempt >= db.retry.MaxAttempts {
			err = fmt.Errorf("deadlock persisted after %d attempts: %w", attempt, err)
			if span != nil {
				span.SetStatus(codes.Error, err.Error())
				span.RecordError(err)
			}
			return err
		}

		db.logger.Debug("deadlock detected, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context canceled during deadlock retry: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, db.retry.MaxBackoff)
		}
	}
}

// runOnce performs a single acquire/run/release cycle. The deferred
// release runs on every path out of fn, including panics, so a lease
// can never escape the pool's accounting.
func (db *DB) runOnce(ctx context.Context, fn func(ctx context.Context, conn Conn) error) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}

	discard := false
	defer func() {
		if discard {
			conn.Discard()
		} else {
			conn.Release()
		}
	}()

	err = fn(ctx, conn)
	if err == nil {
		return nil
	}

	var de *DiscardError
	if errors.As(err, &de) {
		discard = true
		db.logger.Warn("discarding connection", "reason", de.Reason, "error", de.Err)
	}
	return err
}

// WithTx runs fn inside a transaction on a leased connection. fn's
// statements either all commit or none do.
//
// On failure of fn or COMMIT the transaction is rolled back and the
// original failure propagates. If ROLLBACK itself fails the error is
// upgraded to a DiscardError so the enclosing WithConn drops the
// connection instead of reusing it.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return db.WithConn(ctx, func(ctx context.Context, conn Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if err := fn(ctx, tx); err != nil {
			return db.rollback(ctx, tx, err)
		}

		if err := tx.Commit(ctx); err != nil {
			// Wrap with %w so a deadlock surfacing at COMMIT is still
			// classified and retried by WithConn.
			return db.rollback(ctx, tx, fmt.Errorf("commit transaction: %w", err))
		}
		return nil
	})
}

// rollback aborts tx and returns cause, upgrading to a DiscardError
// when the rollback itself fails. A pgx.ErrTxClosed from Rollback is
// benign: the transaction already finished (for example after a failed
// COMMIT, which closes the tx server-side).
func (db *DB) rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		return &DiscardError{
			Reason: "rollback failed, connection state unknown",
			Err:    errors.Join(rbErr, cause),
		}
	}
	return cause
}

// Exec runs a single statement through a leased connection.
func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := db.WithConn(ctx, func(ctx context.Context, conn Conn) error {
		var err error
		tag, err = conn.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}
