// Package storagetest holds the behavioral test suite every storage.Store
// backend must pass.
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mmynk/smartfinance/internal/storage"
)

// Opener opens a store at path with the given schema.
type Opener func(path string, schema storage.Schema) (storage.Store, error)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func testSchema(version int, collections ...string) storage.Schema {
	s := storage.Schema{Name: "TestDB", Version: version}
	for _, c := range collections {
		s.Collections = append(s.Collections, storage.CollectionSpec{Name: c, KeyPath: "id"})
	}
	return s
}

func decodeNotes(t *testing.T, raws []json.RawMessage) []note {
	t.Helper()
	notes, err := storage.Decode[note](raws)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return notes
}

// Run executes the suite against a backend.
func Run(t *testing.T, open Opener) {
	ctx := context.Background()

	newStore := func(t *testing.T, collections ...string) storage.Store {
		t.Helper()
		store, err := open(filepath.Join(t.TempDir(), "test.db"), testSchema(1, collections...))
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	}

	t.Run("Put then Get returns the record", func(t *testing.T) {
		store := newStore(t, "notes")

		if err := store.Put(ctx, "notes", "n1", note{ID: "n1", Text: "hello"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		raw, err := store.Get(ctx, "notes", "n1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		var got note
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if got.Text != "hello" {
			t.Errorf("Text = %q, want hello", got.Text)
		}
	})

	t.Run("Get on a missing key returns ErrNotFound", func(t *testing.T) {
		store := newStore(t, "notes")

		_, err := store.Get(ctx, "notes", "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetAll keeps insertion order across updates", func(t *testing.T) {
		store := newStore(t, "notes")

		for i := 1; i <= 3; i++ {
			id := fmt.Sprintf("n%d", i)
			if err := store.Put(ctx, "notes", id, note{ID: id, Text: "v1"}); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
		}
		if err := store.Put(ctx, "notes", "n1", note{ID: "n1", Text: "v2"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		raws, err := store.GetAll(ctx, "notes")
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		notes := decodeNotes(t, raws)
		if len(notes) != 3 {
			t.Fatalf("expected 3 notes, got %d", len(notes))
		}
		if notes[0].ID != "n1" || notes[0].Text != "v2" {
			t.Errorf("first note = %+v, want updated n1", notes[0])
		}
		if notes[2].ID != "n3" {
			t.Errorf("last note = %s, want n3", notes[2].ID)
		}
	})

	t.Run("Add rejects duplicate keys", func(t *testing.T) {
		store := newStore(t, "notes")

		if err := store.Add(ctx, "notes", "n1", note{ID: "n1"}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		err := store.Add(ctx, "notes", "n1", note{ID: "n1", Text: "again"})
		if !errors.Is(err, storage.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}

		n, err := store.Count(ctx, "notes")
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Count = %d, want 1", n)
		}
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		store := newStore(t, "notes")

		store.Put(ctx, "notes", "n1", note{ID: "n1"})
		store.Put(ctx, "notes", "n2", note{ID: "n2"})

		for i := 0; i < 2; i++ {
			if err := store.Delete(ctx, "notes", "n1"); err != nil {
				t.Fatalf("Delete #%d failed: %v", i+1, err)
			}
		}
		if err := store.Delete(ctx, "notes", "never-existed"); err != nil {
			t.Fatalf("Delete of missing key failed: %v", err)
		}

		raws, _ := store.GetAll(ctx, "notes")
		notes := decodeNotes(t, raws)
		if len(notes) != 1 || notes[0].ID != "n2" {
			t.Errorf("remaining notes = %+v, want only n2", notes)
		}
	})

	t.Run("Clear empties only the named collection", func(t *testing.T) {
		store := newStore(t, "notes", "tags")

		store.Put(ctx, "notes", "n1", note{ID: "n1"})
		store.Put(ctx, "tags", "t1", note{ID: "t1"})

		if err := store.Clear(ctx, "notes"); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if n, _ := store.Count(ctx, "notes"); n != 0 {
			t.Errorf("notes count = %d, want 0", n)
		}
		if n, _ := store.Count(ctx, "tags"); n != 1 {
			t.Errorf("tags count = %d, want 1", n)
		}
	})

	t.Run("Unknown collections are rejected", func(t *testing.T) {
		store := newStore(t, "notes")

		if _, err := store.GetAll(ctx, "bogus"); !errors.Is(err, storage.ErrUnknownCollection) {
			t.Errorf("GetAll: expected ErrUnknownCollection, got %v", err)
		}
		if err := store.Put(ctx, "bogus", "k", note{}); !errors.Is(err, storage.ErrUnknownCollection) {
			t.Errorf("Put: expected ErrUnknownCollection, got %v", err)
		}
	})

	t.Run("Batch is all or nothing", func(t *testing.T) {
		store := newStore(t, "notes")

		boom := errors.New("boom")
		err := store.Batch(ctx, func(b storage.Batch) error {
			if err := b.Put("notes", "n1", note{ID: "n1"}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected batch error, got %v", err)
		}

		n, _ := store.Count(ctx, "notes")
		if n != 0 {
			t.Errorf("Count = %d after failed batch, want 0", n)
		}

		err = store.Batch(ctx, func(b storage.Batch) error {
			for _, id := range []string{"a", "b"} {
				if err := b.Add("notes", id, note{ID: id}); err != nil {
					return err
				}
			}
			count, err := b.Count("notes")
			if err != nil {
				return err
			}
			if count != 2 {
				return fmt.Errorf("count inside batch = %d", count)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Batch failed: %v", err)
		}
	})

	t.Run("Wipe clears every collection and singleton", func(t *testing.T) {
		store, err := open(filepath.Join(t.TempDir(), "wipe.db"), storage.DefaultSchema())
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		defer store.Close()

		store.Put(ctx, "transactions", "t1", note{ID: "t1"})
		store.Put(ctx, "savingsGoals", "g1", note{ID: "g1"})
		store.Put(ctx, "settings", "userSettings", map[string]string{"theme": "dark"})
		store.Put(ctx, "userProfile", "main", map[string]string{"fullName": "Sam"})

		if err := store.Wipe(ctx); err != nil {
			t.Fatalf("Wipe failed: %v", err)
		}

		for _, c := range storage.DefaultSchema().Collections {
			raws, err := store.GetAll(ctx, c.Name)
			if err != nil {
				t.Fatalf("GetAll(%s) failed: %v", c.Name, err)
			}
			if len(raws) != 0 {
				t.Errorf("%s has %d records after wipe", c.Name, len(raws))
			}
		}
		if _, err := store.Get(ctx, "settings", "userSettings"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("settings: expected ErrNotFound, got %v", err)
		}
		if _, err := store.Get(ctx, "userProfile", "main"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("profile: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Version upgrade adds collections and keeps data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "upgrade.db")

		v1, err := open(path, testSchema(1, "notes"))
		if err != nil {
			t.Fatalf("open v1 failed: %v", err)
		}
		if err := v1.Put(ctx, "notes", "n1", note{ID: "n1", Text: "kept"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		v1.Close()

		v2, err := open(path, testSchema(2, "notes", "tags"))
		if err != nil {
			t.Fatalf("open v2 failed: %v", err)
		}
		raws, err := v2.GetAll(ctx, "notes")
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		if notes := decodeNotes(t, raws); len(notes) != 1 || notes[0].Text != "kept" {
			t.Errorf("notes after upgrade = %+v", notes)
		}
		if err := v2.Put(ctx, "tags", "t1", note{ID: "t1"}); err != nil {
			t.Errorf("new collection unusable after upgrade: %v", err)
		}
		if v2.Version() != 2 {
			t.Errorf("Version = %d, want 2", v2.Version())
		}
		v2.Close()

		_, err = open(path, testSchema(1, "notes"))
		if !errors.Is(err, storage.ErrVersionDowngrade) {
			t.Errorf("expected ErrVersionDowngrade, got %v", err)
		}
	})
}
