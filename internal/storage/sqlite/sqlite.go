// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/smartfinance/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db          *sql.DB
	schema      storage.Schema
	collections map[string]bool
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, schema storage.Schema) (*SQLiteStore, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection per process; SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	collections, err := runMigrations(context.Background(), db, schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, schema: schema, collections: collections}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Version returns the declared schema version.
func (s *SQLiteStore) Version() int {
	return s.schema.Version
}

func (s *SQLiteStore) check(collection string) error {
	if !s.collections[collection] {
		return fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}
	return nil
}

// GetAll returns every record in a collection, oldest insert first.
func (s *SQLiteStore) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := s.check(collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM records WHERE collection = ? ORDER BY seq",
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}

	return out, nil
}

// Get retrieves one record by key.
func (s *SQLiteStore) Get(ctx context.Context, collection, key string) (json.RawMessage, error) {
	if err := s.check(collection); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM records WHERE collection = ? AND key = ?",
		collection, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, key, err)
	}

	return json.RawMessage(data), nil
}

// Put inserts or overwrites a record.
func (s *SQLiteStore) Put(ctx context.Context, collection, key string, value any) error {
	if err := s.check(collection); err != nil {
		return err
	}
	return putRecord(ctx, s.db, collection, key, value)
}

// Add inserts a record, failing if the key already exists.
func (s *SQLiteStore) Add(ctx context.Context, collection, key string, value any) error {
	if err := s.check(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := addRecord(ctx, tx, collection, key, value); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a record. Missing keys are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, collection, key string) error {
	if err := s.check(collection); err != nil {
		return err
	}
	return deleteRecord(ctx, s.db, collection, key)
}

// Count returns the number of records in a collection.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	if err := s.check(collection); err != nil {
		return 0, err
	}
	return countRecords(ctx, s.db, collection)
}

// Clear removes every record of a collection.
func (s *SQLiteStore) Clear(ctx context.Context, collection string) error {
	if err := s.check(collection); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", collection); err != nil {
		return fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	return nil
}

// Wipe clears every declared collection in a single transaction.
// User accounts are kept; only financial data is removed.
func (s *SQLiteStore) Wipe(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range s.schema.Collections {
		if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", c.Name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wipe: %w", err)
	}
	return nil
}

// Batch runs fn in one transaction.
func (s *SQLiteStore) Batch(ctx context.Context, fn func(b storage.Batch) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&batch{ctx: ctx, tx: tx, store: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type batch struct {
	ctx   context.Context
	tx    *sql.Tx
	store *SQLiteStore
}

func (b *batch) Put(collection, key string, value any) error {
	if err := b.store.check(collection); err != nil {
		return err
	}
	return putRecord(b.ctx, b.tx, collection, key, value)
}

func (b *batch) Add(collection, key string, value any) error {
	if err := b.store.check(collection); err != nil {
		return err
	}
	return addRecord(b.ctx, b.tx, collection, key, value)
}

func (b *batch) Delete(collection, key string) error {
	if err := b.store.check(collection); err != nil {
		return err
	}
	return deleteRecord(b.ctx, b.tx, collection, key)
}

func (b *batch) Count(collection string) (int, error) {
	if err := b.store.check(collection); err != nil {
		return 0, err
	}
	return countRecords(b.ctx, b.tx, collection)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func putRecord(ctx context.Context, q querier, collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO records (collection, key, data) VALUES (?, ?, ?)
		 ON CONFLICT(collection, key) DO UPDATE SET data = excluded.data`,
		collection, key, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, key, err)
	}
	return nil
}

func addRecord(ctx context.Context, q querier, collection, key string, value any) error {
	var exists int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM records WHERE collection = ? AND key = ?", collection, key,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s/%s", storage.ErrDuplicateKey, collection, key)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check record existence: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		"INSERT INTO records (collection, key, data) VALUES (?, ?, ?)",
		collection, key, string(data),
	); err != nil {
		return fmt.Errorf("failed to add %s/%s: %w", collection, key, err)
	}
	return nil
}

func deleteRecord(ctx context.Context, q querier, collection, key string) error {
	if _, err := q.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND key = ?", collection, key,
	); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func countRecords(ctx context.Context, q querier, collection string) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE collection = ?", collection,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}
