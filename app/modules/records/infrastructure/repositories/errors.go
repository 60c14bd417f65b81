package recordsdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested key has never been written or was cleared.
	ErrNotFound = errors.New("key not found")

	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("store is closed")
)
