package recordsservice

import (
	"context"
	"sync"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// ------------------------
// Fake Records Repository
// ------------------------

// FakeRepository provides a programmable stub for the recordsdb.Repository interface.
// Without overrides it behaves like an in-memory store.
type FakeRepository struct {
	trace []string
	snap  *recordsdomain.Snapshot

	LoadFunc  func(ctx context.Context) (*recordsdomain.Snapshot, error)
	SaveFunc  func(ctx context.Context, snapshot *recordsdomain.Snapshot) error
	ClearFunc func(ctx context.Context) error
}

// NewFakeRepository initializes a FakeRepository holding an empty snapshot.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}, snap: recordsdomain.NewSnapshot()}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRepository) Load(ctx context.Context) (*recordsdomain.Snapshot, error) {
	f.record("Load")
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	return f.snap.Clone(), nil
}

func (f *FakeRepository) Save(ctx context.Context, snapshot *recordsdomain.Snapshot) error {
	f.record("Save")
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, snapshot)
	}
	f.snap = snapshot.Clone()
	return nil
}

func (f *FakeRepository) Clear(ctx context.Context) error {
	f.record("Clear")
	if f.ClearFunc != nil {
		return f.ClearFunc(ctx)
	}
	f.snap = recordsdomain.NewSnapshot()
	return nil
}

func (f *FakeRepository) Invalidate() {
	f.record("Invalidate")
}

// ------------------------
// Fake Event Publisher
// ------------------------

// FakePublisher records published change events.
type FakePublisher struct {
	mu     sync.Mutex
	events []recordsdomain.ChangeEvent

	PublishFunc func(ctx context.Context, topic string, payload any) error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	if ev, ok := payload.(recordsdomain.ChangeEvent); ok {
		f.events = append(f.events, ev)
	}
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, topic, payload)
	}
	return nil
}

// Topics returns the topics published so far, in order.
func (f *FakePublisher) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Topic)
	}
	return out
}

// Last returns the most recent event.
func (f *FakePublisher) Last() recordsdomain.ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return recordsdomain.ChangeEvent{}
	}
	return f.events[len(f.events)-1]
}
