package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for query helpers.
// Check with errors.Is().
var (
	// ErrTooManyRows indicates QueryOne matched more than one row.
	ErrTooManyRows = errors.New("query matched more than one row")
)

// DiscardError marks a failure after which the client connection's
// state is unknown, so the connection must not be returned to the
// pool's reusable set. WithConn detects it with errors.As and discards
// the physical connection before propagating the error.
//
// Work units may return a DiscardError directly to flag a connection
// as pool-unsafe; WithTx creates one when ROLLBACK fails.
type DiscardError struct {
	// Reason is a human-readable explanation of why the connection
	// was discarded.
	Reason string

	// Err is the underlying failure. When a ROLLBACK fails, it joins
	// the rollback error and the original work-unit failure so both
	// remain reachable via errors.Is/errors.As.
	Err error
}

func (e *DiscardError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *DiscardError) Unwrap() error {
	return e.Err
}

// deadlockDetected reports whether err is a PostgreSQL deadlock abort
// (SQLSTATE 40P01). Deadlock aborts leave the connection healthy and
// the transaction cleanly rolled back, so the whole operation is safe
// to retry from scratch.
func deadlockDetected(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.DeadlockDetected
}
