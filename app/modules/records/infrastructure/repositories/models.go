package recordsdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Entry is one key-value row.
type Entry struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`

	Key       string    `bun:"key,pk"`
	Value     []byte    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
