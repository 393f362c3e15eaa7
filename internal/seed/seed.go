// Package seed populates a fresh store with sample data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/internal/storage"
)

// marker is stored under meta/seeded once the sample data has been written.
type marker struct {
	SeededAt string `json:"seededAt"`
}

// Seed writes the sample data set once per store. A store counts as seeded
// when it carries the meta marker or already holds transactions; otherwise
// every empty sample collection is filled and the marker recorded, all in one
// batch. Deleting data later never brings the samples back; only a wipe,
// which also clears the marker, does. It reports whether it wrote samples.
func Seed(ctx context.Context, store storage.Store) (bool, error) {
	seeded := false
	err := store.Batch(ctx, func(b storage.Batch) error {
		done, err := b.Count(models.CollectionMeta)
		if err != nil {
			return err
		}
		if done > 0 {
			return nil
		}

		n, err := b.Count(models.CollectionTransactions)
		if err != nil {
			return err
		}
		if n == 0 {
			slog.Info("Seeding initial database")
			if err := seedAll(b); err != nil {
				return err
			}
			seeded = true
		}

		m := marker{SeededAt: time.Now().UTC().Format(time.RFC3339)}
		if err := b.Put(models.CollectionMeta, models.SeededKey, m); err != nil {
			return fmt.Errorf("failed to record seed marker: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed database: %w", err)
	}

	if seeded {
		slog.Info("Database seeded", "transactions", len(transactions), "bills", len(bills))
	}
	return seeded, nil
}

func seedAll(b storage.Batch) error {
	if err := addAll(b, models.CollectionTransactions, transactions, func(v models.Transaction) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionBills, bills, func(v models.Bill) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionAssets, assets, func(v models.Asset) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionLiabilities, liabilities, func(v models.Liability) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionForumPosts, forumPosts, func(v models.ForumPost) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionChallenges, challenges, func(v models.Challenge) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionBadges, badges, func(v models.Badge) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionInvestments, investments, func(v models.Investment) string { return v.ID }); err != nil {
		return err
	}
	if err := addAll(b, models.CollectionSplitExpenses, splitExpenses, func(v models.SplitExpense) string { return v.ID }); err != nil {
		return err
	}

	n, err := b.Count(models.CollectionSettings)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := b.Put(models.CollectionSettings, models.SettingsKey, models.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// addAll fills a collection with samples unless it already has records.
func addAll[T any](b storage.Batch, collection string, items []T, id func(T) string) error {
	n, err := b.Count(collection)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, item := range items {
		if err := b.Add(collection, id(item), item); err != nil {
			return fmt.Errorf("failed to seed %s: %w", collection, err)
		}
	}
	return nil
}
