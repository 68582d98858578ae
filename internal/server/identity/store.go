// Package identity owns account records: the data model, the Store contract
// and its in-memory and SQL (PostgreSQL, SQLite) implementations.
package identity

import "context"

// Store is the single source of truth for account existence and state.
//
// Lookup returns common.ErrorNotFound for an unknown username. Insert fails
// with common.ErrorAlreadyExists instead of overwriting; SQL stores also
// reject a taken email with common.ErrDuplicateEmail. All exists only to
// let the registration flow enforce email uniqueness; it is not a query API.
// SetDisabled is the administrative path for toggling account state.
type Store interface {
	Lookup(ctx context.Context, username string) (*Record, error)
	Insert(ctx context.Context, record *Record) error
	All(ctx context.Context) ([]*Record, error)
	SetDisabled(ctx context.Context, username string, disabled bool) error
}
