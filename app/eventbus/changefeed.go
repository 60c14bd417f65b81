package eventbus

import (
	"sync"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// DefaultFeedSize is how many change entries the feed keeps.
const DefaultFeedSize = 256

// ChangeEntry is one consumed change event.
type ChangeEntry struct {
	Seq           uint64                    `json:"seq"`
	CorrelationID string                    `json:"correlationId"`
	Event         recordsdomain.ChangeEvent `json:"event"`
}

// ChangeFeed keeps the most recent change events so clients can poll for what changed
// since they last looked.
type ChangeFeed struct {
	mu      sync.RWMutex
	entries []ChangeEntry
	size    int
	seq     uint64
}

// NewChangeFeed keeps up to size entries. A non-positive size uses DefaultFeedSize.
func NewChangeFeed(size int) *ChangeFeed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &ChangeFeed{size: size, entries: make([]ChangeEntry, 0, size)}
}

// Append records ev and returns its sequence number.
func (f *ChangeFeed) Append(correlationID string, ev recordsdomain.ChangeEvent) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if len(f.entries) == f.size {
		copy(f.entries, f.entries[1:])
		f.entries = f.entries[:f.size-1]
	}
	f.entries = append(f.entries, ChangeEntry{Seq: f.seq, CorrelationID: correlationID, Event: ev})
	return f.seq
}

// Since returns the entries after seq, oldest first. truncated is set when entries
// after seq have already been dropped, in which case the caller should reload.
func (f *ChangeFeed) Since(seq uint64) (entries []ChangeEntry, truncated bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries = []ChangeEntry{}
	if len(f.entries) > 0 && f.entries[0].Seq > seq+1 {
		truncated = true
	}
	for _, e := range f.entries {
		if e.Seq > seq {
			entries = append(entries, e)
		}
	}
	return entries, truncated
}

// Latest is the sequence number of the newest entry, or 0.
func (f *ChangeFeed) Latest() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.seq
}
