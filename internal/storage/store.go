// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned when no record exists under a key.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned by Add when the key is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownCollection is returned for collections missing from the schema.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrVersionDowngrade is returned when the declared schema version is
	// older than the one already stored.
	ErrVersionDowngrade = errors.New("schema version is older than stored version")
)

// Store defines the persistent key/value and keyed-collection operations.
// This abstraction allows swapping storage backends (SQLite, bbolt)
// without changing the entity manager or the service layer.
//
// Records are opaque JSON documents. GetAll returns them in insertion order;
// Put on an existing key keeps the record's original position.
type Store interface {
	// GetAll returns every record of a collection in insertion order.
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)

	// Get returns one record, or ErrNotFound.
	Get(ctx context.Context, collection, key string) (json.RawMessage, error)

	// Put inserts or overwrites the record stored under key.
	Put(ctx context.Context, collection, key string, value any) error

	// Add inserts a record and fails with ErrDuplicateKey if key exists.
	Add(ctx context.Context, collection, key string, value any) error

	// Delete removes a record. Deleting a missing key is not an error.
	Delete(ctx context.Context, collection, key string) error

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Clear removes every record of one collection.
	Clear(ctx context.Context, collection string) error

	// Batch runs fn inside a single write transaction. Either every write
	// made through the Batch commits or none does.
	Batch(ctx context.Context, fn func(b Batch) error) error

	// Wipe clears every declared collection in one transaction.
	Wipe(ctx context.Context) error

	// Version returns the schema version the store was opened with.
	Version() int

	// Close releases any resources held by the store.
	Close() error
}

// Batch is the write surface available inside Store.Batch.
type Batch interface {
	Put(collection, key string, value any) error
	Add(collection, key string, value any) error
	Delete(collection, key string) error
	Count(collection string) (int, error)
}

// Decode unmarshals every raw record into a fresh T.
func Decode[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
