// Package postgres provides the pooled-connection access layer for parley.
//
// Every query in the application goes through a DB, which leases a
// connection from a Pool, runs the caller's work against it, and returns
// the connection under every outcome. Two failure modes get special
// treatment:
//
//   - Deadlock aborts (SQLSTATE 40P01) are retried from a fresh
//     connection with exponential backoff, up to RetryConfig.MaxAttempts.
//     Callers never see a deadlock that resolved within the budget.
//   - Failures wrapped in DiscardError mark the client connection as
//     untrustworthy; the physical connection is dropped instead of being
//     returned to the pool. WithTx produces these itself when ROLLBACK
//     fails.
//
// All other errors are propagated unchanged with the connection released
// healthy.
//
// The Pool interface is satisfied by NewPool(*pgxpool.Pool) in
// production and by fakes in tests.
package postgres
