package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/smartfinance/internal/storage"
)

// schema holds the fixed tables backing every collection.
// Records of all collections share one table; seq preserves insertion order
// and survives updates because Put upserts in place.
const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
    name TEXT PRIMARY KEY,
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    key_path TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    collection TEXT NOT NULL,
    key TEXT NOT NULL,
    data TEXT NOT NULL,
    UNIQUE (collection, key),
    FOREIGN KEY (collection) REFERENCES collections(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection, seq);
`

// runMigrations creates the fixed tables and then upgrades the declared
// collections. It returns the set of collections available afterwards.
func runMigrations(ctx context.Context, db *sql.DB, declared storage.Schema) (map[string]bool, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stored int
	err = tx.QueryRowContext(ctx,
		"SELECT version FROM schema_meta WHERE name = ?", declared.Name,
	).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	if declared.Version < stored {
		return nil, fmt.Errorf("%w: declared %d, stored %d", storage.ErrVersionDowngrade, declared.Version, stored)
	}

	if declared.Version > stored {
		// One-time upgrade: create what is missing, keep what exists.
		now := time.Now().Unix()
		for _, c := range declared.Collections {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO collections (name, key_path, created_at) VALUES (?, ?, ?)",
				c.Name, c.KeyPath, now,
			); err != nil {
				return nil, fmt.Errorf("failed to create collection %s: %w", c.Name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_meta (name, version) VALUES (?, ?)
			 ON CONFLICT(name) DO UPDATE SET version = excluded.version`,
			declared.Name, declared.Version,
		); err != nil {
			return nil, fmt.Errorf("failed to store schema version: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, "SELECT name FROM collections")
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	collections := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collections: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit migration: %w", err)
	}

	return collections, nil
}
