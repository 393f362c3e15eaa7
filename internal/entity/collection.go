// Package entity keeps the in-memory view of every collection in step with
// the persistent store.
package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/smartfinance/internal/metrics"
	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/internal/storage"
)

var (
	// ErrMissingID is returned by BulkReplace when an entity has no ID.
	ErrMissingID = errors.New("entity has no id")

	// ErrInvalidRecord is returned when a JSON record does not decode.
	ErrInvalidRecord = errors.New("invalid record")
)

// Ptr constrains PT to *T implementing models.Entity.
type Ptr[T any] interface {
	*T
	models.Entity
}

// Collection is the generic manager for one keyed collection.
//
// Every mutating call holds the collection lock across the durable write, so
// two operations on the same collection apply in call order. Memory is only
// touched after the store accepted the write; a failed write leaves the
// in-memory list exactly as it was.
type Collection[T any, PT Ptr[T]] struct {
	name  string
	store storage.Store
	ids   *IDGenerator

	mu    sync.Mutex
	items []T
}

// NewCollection binds a manager to a collection name.
func NewCollection[T any, PT Ptr[T]](store storage.Store, ids *IDGenerator, name string) *Collection[T, PT] {
	return &Collection[T, PT]{name: name, store: store, ids: ids}
}

// Name returns the collection name.
func (c *Collection[T, PT]) Name() string {
	return c.name
}

// Load replaces the in-memory list with the stored records.
func (c *Collection[T, PT]) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raws, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", c.name, err)
	}
	items, err := storage.Decode[T](raws)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.name, err)
	}
	c.items = items
	return nil
}

// Save persists item and returns it as stored.
//
// An item with an ID is written over any existing record with that ID, in
// place; if no such record exists it is inserted. An item without an ID gets
// a fresh one and is appended.
func (c *Collection[T, PT]) Save(ctx context.Context, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := PT(&item)
	if p.EntityID() == "" {
		p.SetEntityID(c.ids.Next(c.name))
		if err := c.store.Add(ctx, c.name, p.EntityID(), item); err != nil {
			metrics.StoreWriteErrors.WithLabelValues(c.name).Inc()
			var zero T
			return zero, fmt.Errorf("failed to add %s: %w", c.name, err)
		}
		c.items = append(c.items, item)
		slog.Debug("Entity created", "collection", c.name, "id", p.EntityID())
		return item, nil
	}

	if err := c.store.Put(ctx, c.name, p.EntityID(), item); err != nil {
		metrics.StoreWriteErrors.WithLabelValues(c.name).Inc()
		var zero T
		return zero, fmt.Errorf("failed to save %s: %w", c.name, err)
	}
	c.upsertLocked(item)
	slog.Debug("Entity saved", "collection", c.name, "id", p.EntityID())
	return item, nil
}

// Delete removes the entity with the given ID. Unknown IDs are a no-op.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, c.name, id); err != nil {
		metrics.StoreWriteErrors.WithLabelValues(c.name).Inc()
		return fmt.Errorf("failed to delete %s/%s: %w", c.name, id, err)
	}
	if i := c.indexLocked(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	return nil
}

// BulkReplace overwrites every given entity in one store transaction.
func (c *Collection[T, PT]) BulkReplace(ctx context.Context, items []T) error {
	for i := range items {
		if PT(&items[i]).EntityID() == "" {
			return fmt.Errorf("%s[%d]: %w", c.name, i, ErrMissingID)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Batch(ctx, func(b storage.Batch) error {
		for i := range items {
			if err := b.Put(c.name, PT(&items[i]).EntityID(), items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.StoreWriteErrors.WithLabelValues(c.name).Inc()
		return fmt.Errorf("failed to bulk replace %s: %w", c.name, err)
	}

	for _, item := range items {
		c.upsertLocked(item)
	}
	return nil
}

// AddAll inserts new entities in one store transaction and returns them as
// stored. Entities without an ID get a fresh one. If any write fails nothing
// is stored and memory is untouched.
func (c *Collection[T, PT]) AddAll(ctx context.Context, items []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if p := PT(&out[i]); p.EntityID() == "" {
			p.SetEntityID(c.ids.Next(c.name))
		}
	}

	err := c.store.Batch(ctx, func(b storage.Batch) error {
		for i := range out {
			if err := b.Add(c.name, PT(&out[i]).EntityID(), out[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.StoreWriteErrors.WithLabelValues(c.name).Inc()
		return nil, fmt.Errorf("failed to add %s: %w", c.name, err)
	}

	c.items = append(c.items, out...)
	slog.Debug("Entities created", "collection", c.name, "count", len(out))
	return out, nil
}

// List returns a snapshot of the collection in insertion order.
func (c *Collection[T, PT]) List() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get looks up one entity by ID.
func (c *Collection[T, PT]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of entities held in memory.
func (c *Collection[T, PT]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T, PT]) reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

func (c *Collection[T, PT]) indexLocked(id string) int {
	for i := range c.items {
		if PT(&c.items[i]).EntityID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T, PT]) upsertLocked(item T) {
	if i := c.indexLocked(PT(&item).EntityID()); i >= 0 {
		c.items[i] = item
		return
	}
	c.items = append(c.items, item)
}

// Saver is the JSON-level view of a Collection used by the RPC layer, which
// addresses collections by name.
type Saver interface {
	Name() string
	SaveJSON(ctx context.Context, data json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, id string) error
	ListJSON() ([]json.RawMessage, error)
	BulkReplaceJSON(ctx context.Context, data []json.RawMessage) error
	Load(ctx context.Context) error
	Len() int
	reset()
}

// SaveJSON decodes one record and saves it.
func (c *Collection[T, PT]) SaveJSON(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, c.name, err)
	}
	saved, err := c.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(saved)
}

// ListJSON encodes the current snapshot.
func (c *Collection[T, PT]) ListJSON() ([]json.RawMessage, error) {
	items := c.List()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s record: %w", c.name, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// BulkReplaceJSON decodes every record and bulk replaces them.
func (c *Collection[T, PT]) BulkReplaceJSON(ctx context.Context, data []json.RawMessage) error {
	items, err := storage.Decode[T](data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, c.name, err)
	}
	return c.BulkReplace(ctx, items)
}
