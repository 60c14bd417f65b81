package recordsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// BunStore keeps keys in the kv_entries table of a SQLite or Postgres database.
type BunStore struct {
	DB *bun.DB
}

// Get selects the value for key.
func (db *BunStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry := new(Entry)
	err := db.DB.NewSelect().
		Model(entry).
		Column("key", "value").
		Where("? = ?", bun.Ident("key"), key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return entry.Value, nil
}

// Put upserts the value for key in one statement.
func (db *BunStore) Put(ctx context.Context, key string, value []byte) error {
	entry := &Entry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := db.DB.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

// Delete removes the row for key.
func (db *BunStore) Delete(ctx context.Context, key string) error {
	_, err := db.DB.NewDelete().
		Model((*Entry)(nil)).
		Where("? = ?", bun.Ident("key"), key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the database handle.
func (db *BunStore) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}
