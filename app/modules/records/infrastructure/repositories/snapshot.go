package recordsdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// SnapshotDBImpl stores the snapshot as one JSON value in a KeyValueStore and keeps a
// decoded copy in memory so repeated loads skip deserialization.
type SnapshotDBImpl struct {
	KV     KeyValueStore
	Key    string
	logger *slog.Logger

	mu     sync.Mutex
	cached *recordsdomain.Snapshot
}

// NewSnapshotDB creates a snapshot repository over kv.
func NewSnapshotDB(kv KeyValueStore, key string, logger *slog.Logger) *SnapshotDBImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotDBImpl{KV: kv, Key: key, logger: logger}
}

// Load returns a private copy of the current snapshot.
func (db *SnapshotDBImpl) Load(ctx context.Context) (*recordsdomain.Snapshot, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.cached != nil {
		return db.cached.Clone(), nil
	}

	data, err := db.KV.Get(ctx, db.Key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			db.logger.DebugContext(ctx, "No stored snapshot, starting empty", slog.String("key", db.Key))
			db.cached = recordsdomain.NewSnapshot()
			return db.cached.Clone(), nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snapshot, err := recordsdomain.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored snapshot: %w", err)
	}

	db.cached = snapshot
	return snapshot.Clone(), nil
}

// Save persists the whole snapshot with a single put.
func (db *SnapshotDBImpl) Save(ctx context.Context, snapshot *recordsdomain.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}
	snapshot.Normalize()
	data, err := snapshot.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.KV.Put(ctx, db.Key, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	db.cached = snapshot.Clone()
	return nil
}

// Clear deletes the stored snapshot and drops the cache.
func (db *SnapshotDBImpl) Clear(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.cached = nil
	if err := db.KV.Delete(ctx, db.Key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot.
func (db *SnapshotDBImpl) Invalidate() {
	db.mu.Lock()
	db.cached = nil
	db.mu.Unlock()
}
