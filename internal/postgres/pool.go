package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is the query surface a work unit sees on a leased connection.
// It is the subset of pgx shared by *pgxpool.Conn and pgx.Tx, so the
// same store code runs inside and outside transactions.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LeasedConn is a Conn owned exclusively by one WithConn invocation.
// Exactly one of Release or Discard must be called, exactly once.
type LeasedConn interface {
	Conn

	// Release returns the connection to the pool for reuse.
	Release()

	// Discard drops the physical connection instead of returning it.
	// Used when client-side state is no longer trustworthy (for
	// example after a failed ROLLBACK).
	Discard()
}

// Pool hands out leased connections. It is the only shared mutable
// resource in this package; DB never touches it beyond Acquire.
//
// Acquire blocks until a connection is free or ctx is done.
type Pool interface {
	Acquire(ctx context.Context) (LeasedConn, error)
}

// NewPool wraps a pgxpool.Pool in the Pool interface.
func NewPool(pool *pgxpool.Pool) Pool {
	return &pgxPool{pool: pool}
}

type pgxPool struct {
	pool *pgxpool.Pool
}

func (p *pgxPool) Acquire(ctx context.Context) (LeasedConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxLeasedConn{conn: conn}, nil
}

// pgxLeasedConn adapts *pgxpool.Conn to LeasedConn.
type pgxLeasedConn struct {
	conn *pgxpool.Conn
}

func (c *pgxLeasedConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn.Exec(ctx, sql, args...)
}

func (c *pgxLeasedConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

func (c *pgxLeasedConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.conn.QueryRow(ctx, sql, args...)
}

func (c *pgxLeasedConn) Begin(ctx context.Context) (pgx.Tx, error) {
	return c.conn.Begin(ctx)
}

func (c *pgxLeasedConn) Release() {
	c.conn.Release()
}

func (c *pgxLeasedConn) Discard() {
	// Hijack removes the connection from the pool's accounting; closing
	// it afterwards destroys the physical connection. The pool opens a
	// replacement on demand.
	conn := c.conn.Hijack()
	_ = conn.Close(context.Background())
}
