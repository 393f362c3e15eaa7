// Package bolt provides a bbolt-backed implementation of the storage.Store
// interface. Each collection is a top-level bucket holding a "data" bucket
// (key -> record) and an "order" bucket (sequence -> key) that preserves
// insertion order across updates.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/smartfinance/internal/storage"
)

var _ storage.Store = (*Store)(nil)

var (
	metaBucket  = []byte("_meta")
	dataBucket  = []byte("data")
	orderBucket = []byte("order")
)

// record is the stored envelope; Seq points back into the order bucket.
type record struct {
	Seq  uint64          `json:"seq"`
	Data json.RawMessage `json:"data"`
}

// Store represents the bbolt database wrapper.
type Store struct {
	db     *bolt.DB
	schema storage.Schema
}

// New opens (or creates) the database file and upgrades the declared
// collections when the schema version increased.
func New(dbPath string, schema storage.Schema) (*Store, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		return migrate(tx, schema)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, schema: schema}, nil
}

func migrate(tx *bolt.Tx, schema storage.Schema) error {
	meta, err := tx.CreateBucketIfNotExists(metaBucket)
	if err != nil {
		return fmt.Errorf("failed to create meta bucket: %w", err)
	}

	versionKey := []byte("version:" + schema.Name)
	stored := 0
	if v := meta.Get(versionKey); v != nil {
		stored, err = strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("failed to parse stored version: %w", err)
		}
	}

	if schema.Version < stored {
		return fmt.Errorf("%w: declared %d, stored %d", storage.ErrVersionDowngrade, schema.Version, stored)
	}
	if schema.Version == stored {
		return nil
	}

	for _, c := range schema.Collections {
		b, err := tx.CreateBucketIfNotExists([]byte(c.Name))
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", c.Name, err)
		}
		if _, err := b.CreateBucketIfNotExists(dataBucket); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", c.Name, err)
		}
		if _, err := b.CreateBucketIfNotExists(orderBucket); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", c.Name, err)
		}
	}

	return meta.Put(versionKey, []byte(strconv.Itoa(schema.Version)))
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Version returns the declared schema version.
func (s *Store) Version() int {
	return s.schema.Version
}

// GetAll returns every record in insertion order.
func (s *Store) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		data, order, err := buckets(tx, collection)
		if err != nil {
			return err
		}
		return order.ForEach(func(_, key []byte) error {
			rec, err := decodeRecord(data.Get(key))
			if err != nil {
				return err
			}
			out = append(out, rec.Data)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves one record.
func (s *Store) Get(ctx context.Context, collection, key string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		data, _, err := buckets(tx, collection)
		if err != nil {
			return err
		}
		raw := data.Get([]byte(key))
		if raw == nil {
			return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, key)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return err
		}
		out = rec.Data
		return nil
	})
	return out, err
}

// Put inserts or overwrites a record.
func (s *Store) Put(ctx context.Context, collection, key string, value any) error {
	return s.update(ctx, func(b *batch) error { return b.Put(collection, key, value) })
}

// Add inserts a record, failing with storage.ErrDuplicateKey if it exists.
func (s *Store) Add(ctx context.Context, collection, key string, value any) error {
	return s.update(ctx, func(b *batch) error { return b.Add(collection, key, value) })
}

// Delete removes a record; missing keys are ignored.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	return s.update(ctx, func(b *batch) error { return b.Delete(collection, key) })
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		data, _, err := buckets(tx, collection)
		if err != nil {
			return err
		}
		n = data.Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes every record of one collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	return s.update(ctx, func(b *batch) error { return b.clear(collection) })
}

// Wipe clears every declared collection in one transaction.
func (s *Store) Wipe(ctx context.Context) error {
	return s.update(ctx, func(b *batch) error {
		for _, c := range s.schema.Collections {
			if b.tx.Bucket([]byte(c.Name)) == nil {
				continue
			}
			if err := b.clear(c.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Batch runs fn inside one bbolt write transaction.
func (s *Store) Batch(ctx context.Context, fn func(b storage.Batch) error) error {
	return s.update(ctx, func(b *batch) error { return fn(b) })
}

func (s *Store) update(ctx context.Context, fn func(b *batch) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&batch{tx: tx})
	})
}

type batch struct {
	tx *bolt.Tx
}

func (b *batch) Put(collection, key string, value any) error {
	data, order, err := buckets(b.tx, collection)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	rec := record{Data: encoded}
	if existing := data.Get([]byte(key)); existing != nil {
		old, err := decodeRecord(existing)
		if err != nil {
			return err
		}
		rec.Seq = old.Seq
	} else {
		seq, err := order.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		rec.Seq = seq
		if err := order.Put(itob(seq), []byte(key)); err != nil {
			return fmt.Errorf("failed to put %s/%s: %w", collection, key, err)
		}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := data.Put([]byte(key), raw); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *batch) Add(collection, key string, value any) error {
	data, _, err := buckets(b.tx, collection)
	if err != nil {
		return err
	}
	if data.Get([]byte(key)) != nil {
		return fmt.Errorf("%w: %s/%s", storage.ErrDuplicateKey, collection, key)
	}
	return b.Put(collection, key, value)
}

func (b *batch) Delete(collection, key string) error {
	data, order, err := buckets(b.tx, collection)
	if err != nil {
		return err
	}

	raw := data.Get([]byte(key))
	if raw == nil {
		return nil
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return err
	}
	if err := order.Delete(itob(rec.Seq)); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	if err := data.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *batch) Count(collection string) (int, error) {
	data, _, err := buckets(b.tx, collection)
	if err != nil {
		return 0, err
	}
	n := 0
	err = data.ForEach(func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

func (b *batch) clear(collection string) error {
	parent := b.tx.Bucket([]byte(collection))
	if parent == nil {
		return fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}
	for _, name := range [][]byte{dataBucket, orderBucket} {
		if err := parent.DeleteBucket(name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
		if _, err := parent.CreateBucket(name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	return nil
}

func buckets(tx *bolt.Tx, collection string) (data, order *bolt.Bucket, err error) {
	parent := tx.Bucket([]byte(collection))
	if parent == nil {
		return nil, nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}
	return parent.Bucket(dataBucket), parent.Bucket(orderBucket), nil
}

// decodeRecord copies out of bbolt-owned memory.
func decodeRecord(raw []byte) (record, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// itob converts a sequence to a big-endian key so order iterates numerically.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
