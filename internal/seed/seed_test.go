package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/internal/storage"
	"github.com/mmynk/smartfinance/internal/storage/sqlite"
)

func counts(t *testing.T, store storage.Store) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, c := range storage.DefaultSchema().Collections {
		n, err := store.Count(context.Background(), c.Name)
		if err != nil {
			t.Fatalf("Count(%s) failed: %v", c.Name, err)
		}
		out[c.Name] = n
	}
	return out
}

func TestSeedIsIdempotent(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"), storage.DefaultSchema())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	seeded, err := Seed(ctx, store)
	if err != nil {
		t.Fatalf("first Seed failed: %v", err)
	}
	if !seeded {
		t.Fatal("expected first Seed to write data")
	}
	once := counts(t, store)

	seeded, err = Seed(ctx, store)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if seeded {
		t.Error("expected second Seed to be a no-op")
	}
	twice := counts(t, store)

	for name, n := range once {
		if twice[name] != n {
			t.Errorf("%s: %d records after one seed, %d after two", name, n, twice[name])
		}
	}
	if once[models.CollectionTransactions] != len(transactions) {
		t.Errorf("transactions = %d, want %d", once[models.CollectionTransactions], len(transactions))
	}
	if once[models.CollectionSettings] != 1 {
		t.Errorf("settings = %d, want 1", once[models.CollectionSettings])
	}
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"), storage.DefaultSchema())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	store.Put(ctx, models.CollectionTransactions, "mine", models.Transaction{ID: "mine"})

	seeded, err := Seed(ctx, store)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if seeded {
		t.Error("expected Seed to leave a populated store alone")
	}
	if n, _ := store.Count(ctx, models.CollectionBills); n != 0 {
		t.Errorf("bills = %d, want 0", n)
	}
}

func TestSeedRunsOncePerStore(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"), storage.DefaultSchema())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := Seed(ctx, store); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	t.Run("deleting every transaction does not reseed", func(t *testing.T) {
		if err := store.Clear(ctx, models.CollectionTransactions); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		seeded, err := Seed(ctx, store)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if seeded {
			t.Error("expected Seed to respect the marker")
		}
		if n, _ := store.Count(ctx, models.CollectionTransactions); n != 0 {
			t.Errorf("transactions = %d, want 0", n)
		}
	})

	t.Run("wipe clears the marker", func(t *testing.T) {
		if err := store.Wipe(ctx); err != nil {
			t.Fatalf("Wipe failed: %v", err)
		}
		seeded, err := Seed(ctx, store)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if !seeded {
			t.Error("expected a wiped store to be seeded again")
		}
	})
}

func TestSeedWithoutMarkerKeepsExistingSamples(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"), storage.DefaultSchema())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	// A store written before the marker existed: samples left over, no
	// transactions.
	for _, b := range bills {
		store.Put(ctx, models.CollectionBills, b.ID, b)
	}

	seeded, err := Seed(ctx, store)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if !seeded {
		t.Error("expected transactions to be seeded")
	}
	if n, _ := store.Count(ctx, models.CollectionBills); n != len(bills) {
		t.Errorf("bills = %d, want %d", n, len(bills))
	}
	if n, _ := store.Count(ctx, models.CollectionTransactions); n != len(transactions) {
		t.Errorf("transactions = %d, want %d", n, len(transactions))
	}
}
