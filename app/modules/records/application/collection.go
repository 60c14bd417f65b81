package recordsservice

import (
	"context"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// prepareFunc validates and normalizes a record before it is stored. It runs after the id
// is set and against the snapshot the record will join.
type prepareFunc[P any] func(snap *recordsdomain.Snapshot, item P) error

// cascadeFunc removes or rewrites whatever referenced a deleted record and reports how
// many dependent records it touched.
type cascadeFunc[T any] func(snap *recordsdomain.Snapshot, removed T) int

// Collection provides the uniform CRUD operations over one reference collection.
type Collection[T any, P recordsdomain.Record[T]] struct {
	svc     *Service
	kind    Kind
	items   func(snap *recordsdomain.Snapshot) *[]T
	prepare prepareFunc[P]
	cascade cascadeFunc[T]
}

func newCollection[T any, P recordsdomain.Record[T]](
	svc *Service,
	kind Kind,
	items func(snap *recordsdomain.Snapshot) *[]T,
	prepare prepareFunc[P],
	cascade cascadeFunc[T],
) *Collection[T, P] {
	return &Collection[T, P]{svc: svc, kind: kind, items: items, prepare: prepare, cascade: cascade}
}

// Kind returns the collection's kind.
func (c *Collection[T, P]) Kind() Kind { return c.kind }

func (c *Collection[T, P]) op(name string) string {
	return string(c.kind) + "." + name
}

// List returns copies of every record.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := c.svc.withTelemetry(ctx, c.op("List"), func(ctx context.Context) error {
		snap, err := c.svc.load(ctx)
		if err != nil {
			return err
		}
		out = cloneAll[T, P](*c.items(snap))
		return nil
	})
	return out, err
}

// ListActive returns copies of the records whose isActive flag is not false. Kinds
// without the flag return every record.
func (c *Collection[T, P]) ListActive(ctx context.Context) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for i := range all {
		if a, ok := any(P(&all[i])).(recordsdomain.Activatable); ok && !a.Active() {
			continue
		}
		out = append(out, all[i])
	}
	return out, nil
}

// Get returns a copy of the record with id.
func (c *Collection[T, P]) Get(ctx context.Context, id int) (T, error) {
	var out T
	err := c.svc.withTelemetry(ctx, c.op("Get"), func(ctx context.Context) error {
		snap, err := c.svc.load(ctx)
		if err != nil {
			return err
		}
		items := *c.items(snap)
		i := indexOf[T, P](items, id)
		if i < 0 {
			return c.notFound(id)
		}
		out = P(&items[i]).Clone()
		return nil
	})
	return out, err
}

// Create assigns the next id to item, validates it and appends it.
func (c *Collection[T, P]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := c.svc.withTelemetry(ctx, c.op("Create"), func(ctx context.Context) error {
		return c.svc.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			items := c.items(snap)
			rec := P(&item)
			if err := c.checkName(*items, rec.EntityName(), 0); err != nil {
				return nil, err
			}
			rec.SetEntityID(recordsdomain.NextID[T, P](*items))
			if c.prepare != nil {
				if err := c.prepare(snap, rec); err != nil {
					return nil, err
				}
			}
			*items = append(*items, item)
			out = rec.Clone()
			return []recordsdomain.ChangeEvent{c.event(recordsdomain.TopicRecordCreated, rec, 0)}, nil
		})
	})
	return out, err
}

// Update replaces the record with id by item. The id is kept; item's own id is ignored.
func (c *Collection[T, P]) Update(ctx context.Context, id int, item T) (T, error) {
	var out T
	err := c.svc.withTelemetry(ctx, c.op("Update"), func(ctx context.Context) error {
		return c.svc.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			items := c.items(snap)
			i := indexOf[T, P](*items, id)
			if i < 0 {
				return nil, c.notFound(id)
			}
			rec := P(&item)
			if err := c.checkName(*items, rec.EntityName(), id); err != nil {
				return nil, err
			}
			rec.SetEntityID(id)
			if c.prepare != nil {
				if err := c.prepare(snap, rec); err != nil {
					return nil, err
				}
			}
			(*items)[i] = item
			out = rec.Clone()
			return []recordsdomain.ChangeEvent{c.event(recordsdomain.TopicRecordUpdated, rec, 0)}, nil
		})
	})
	return out, err
}

// Delete removes the record with id, applies the kind's cascade and returns the removed
// record.
func (c *Collection[T, P]) Delete(ctx context.Context, id int) (T, error) {
	var out T
	err := c.svc.withTelemetry(ctx, c.op("Delete"), func(ctx context.Context) error {
		return c.svc.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			items := c.items(snap)
			i := indexOf[T, P](*items, id)
			if i < 0 {
				return nil, c.notFound(id)
			}
			removed := (*items)[i]
			*items = append((*items)[:i], (*items)[i+1:]...)

			cascaded := 0
			if c.cascade != nil {
				cascaded = c.cascade(snap, removed)
			}
			out = P(&removed).Clone()
			return []recordsdomain.ChangeEvent{c.event(recordsdomain.TopicRecordDeleted, P(&removed), cascaded)}, nil
		})
	})
	return out, err
}

// ToggleActive flips the isActive flag. Kinds without the flag fail with
// ErrInvalidConfiguration.
func (c *Collection[T, P]) ToggleActive(ctx context.Context, id int) (T, error) {
	return c.toggle(ctx, "ToggleActive", id, func(rec P) error {
		a, ok := any(rec).(recordsdomain.Activatable)
		if !ok {
			return recordsdomain.NewError(recordsdomain.ErrInvalidConfiguration, c.kind.Label(),
				"%s records have no active flag", c.kind.Label())
		}
		a.SetActive(!a.Active())
		return nil
	})
}

// ToggleArchived flips the isArchived flag. Kinds without the flag fail with
// ErrInvalidConfiguration.
func (c *Collection[T, P]) ToggleArchived(ctx context.Context, id int) (T, error) {
	return c.toggle(ctx, "ToggleArchived", id, func(rec P) error {
		a, ok := any(rec).(recordsdomain.Archivable)
		if !ok {
			return recordsdomain.NewError(recordsdomain.ErrInvalidConfiguration, c.kind.Label(),
				"%s records cannot be archived", c.kind.Label())
		}
		a.SetArchived(!a.Archived())
		return nil
	})
}

func (c *Collection[T, P]) toggle(ctx context.Context, name string, id int, flip func(rec P) error) (T, error) {
	var out T
	err := c.svc.withTelemetry(ctx, c.op(name), func(ctx context.Context) error {
		return c.svc.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			items := *c.items(snap)
			i := indexOf[T, P](items, id)
			if i < 0 {
				return nil, c.notFound(id)
			}
			rec := P(&items[i])
			if err := flip(rec); err != nil {
				return nil, err
			}
			out = rec.Clone()
			return []recordsdomain.ChangeEvent{c.event(recordsdomain.TopicRecordUpdated, rec, 0)}, nil
		})
	})
	return out, err
}

// checkName rejects blank names and names used by any record other than self.
func (c *Collection[T, P]) checkName(items []T, name string, self int) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return recordsdomain.NewError(recordsdomain.ErrInvalidConfiguration, c.kind.Label(), "name is required")
	}
	for i := range items {
		rec := P(&items[i])
		if rec.EntityID() == self {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rec.EntityName()), trimmed) {
			return recordsdomain.NewError(recordsdomain.ErrDuplicateName, c.kind.Label(),
				"a %s named %q already exists", c.kind.Label(), rec.EntityName())
		}
	}
	return nil
}

func (c *Collection[T, P]) notFound(id int) error {
	return recordsdomain.NewError(recordsdomain.ErrNotFound, c.kind.Label(), "no %s with id %d", c.kind.Label(), id)
}

func (c *Collection[T, P]) event(topic string, rec P, cascaded int) recordsdomain.ChangeEvent {
	return recordsdomain.ChangeEvent{
		Topic:    topic,
		Kind:     string(c.kind),
		ID:       rec.EntityID(),
		Name:     rec.EntityName(),
		Cascaded: cascaded,
	}
}

func indexOf[T any, P recordsdomain.Record[T]](items []T, id int) int {
	for i := range items {
		if P(&items[i]).EntityID() == id {
			return i
		}
	}
	return -1
}

func cloneAll[T any, P recordsdomain.Record[T]](items []T) []T {
	out := make([]T, len(items))
	for i := range items {
		out[i] = P(&items[i]).Clone()
	}
	return out
}
