package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal query surface shared by Conn and pgx.Tx.
// The generic helpers below accept it so the same projection code runs
// against a plain leased connection or inside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// One runs a parameterized statement against q and scans the single
// matching row into T by column name. The second return value reports
// whether a row matched at all; more than one match is an
// ErrTooManyRows, since callers use One for lookups that are unique by
// schema contract.
func One[T any](ctx context.Context, q Querier, sql string, args ...any) (T, bool, error) {
	var zero T

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, false, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return zero, false, err
	}

	switch len(items) {
	case 0:
		return zero, false, nil
	case 1:
		return items[0], true, nil
	default:
		return zero, false, fmt.Errorf("%w: got %d", ErrTooManyRows, len(items))
	}
}

// Many runs a parameterized statement against q and scans all matching
// rows into a slice of T, preserving statement order.
func Many[T any](ctx context.Context, q Querier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

// QueryOne is One through an implicitly leased connection.
func QueryOne[T any](ctx context.Context, db *DB, sql string, args ...any) (T, bool, error) {
	var (
		out   T
		found bool
	)
	err := db.WithConn(ctx, func(ctx context.Context, conn Conn) error {
		var err error
		out, found, err = One[T](ctx, conn, sql, args...)
		return err
	})
	return out, found, err
}

// QueryMany is Many through an implicitly leased connection.
func QueryMany[T any](ctx context.Context, db *DB, sql string, args ...any) ([]T, error) {
	var out []T
	err := db.WithConn(ctx, func(ctx context.Context, conn Conn) error {
		var err error
		out, err = Many[T](ctx, conn, sql, args...)
		return err
	})
	return out, err
}
