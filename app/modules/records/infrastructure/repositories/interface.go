package recordsdb

import (
	"context"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// KeyValueStore is the opaque local storage the snapshot is written to.
// All methods are context-aware for cancellation.
//
// Error semantics:
//   - ErrNotFound: Get on a key that does not exist
//   - Other errors: storage failures (I/O, database)
type KeyValueStore interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key in a single write.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying handle.
	Close() error
}

// Repository loads and saves the whole records snapshot.
type Repository interface {
	// Load returns a private copy of the current snapshot. A store that was never
	// written yields an empty snapshot.
	Load(ctx context.Context) (*recordsdomain.Snapshot, error)

	// Save persists the whole snapshot and refreshes the cache.
	Save(ctx context.Context, snapshot *recordsdomain.Snapshot) error

	// Clear removes the persisted snapshot entirely.
	Clear(ctx context.Context) error

	// Invalidate drops the cached snapshot so the next Load reads from storage.
	Invalidate()
}
