package booking

import "context"

// Store is the durable source of truth for reservations. Implementations
// live in internal/repository: a MySQL store and a JSON-file store
// compatible with the original data files.
//
// Every mutating call must persist before returning success. When the
// durable write fails, the in-memory mutation is rolled back and an
// error wrapping ErrPersistence is returned.
type Store interface {
	// Get returns the current owner of the cell, if any.
	Get(ctx context.Context, key Key) (owner string, ok bool, err error)

	// Reserve records user as the owner of the cell. It fails with
	// ErrSlotTaken when the cell is occupied by anyone, including user.
	Reserve(ctx context.Context, key Key, user string) error

	// Cancel removes the user's reservation of the cell. It fails with
	// ErrNotFound on an empty cell and ErrNotOwner when the cell belongs
	// to someone else.
	Cancel(ctx context.Context, key Key, user string) error

	// Clear removes every reservation. Used by the daily rollover.
	Clear(ctx context.Context) error

	// ListByUser returns all cells owned by user, ordered by space and
	// then by slot start for display determinism.
	ListByUser(ctx context.Context, user string) ([]Key, error)
}
