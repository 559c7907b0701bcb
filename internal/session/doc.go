// Package session provides persistence for login sessions.
//
// A login session is an opaque bearer token tied to one user with an
// expiry. Expired tokens are indistinguishable from missing ones to
// callers; PruneExpired deletes them in bulk.
package session
