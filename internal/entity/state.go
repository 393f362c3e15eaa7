package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/internal/seed"
	"github.com/mmynk/smartfinance/internal/storage"
)

// State is the application state: one manager per collection plus the
// settings and profile singletons.
type State struct {
	store storage.Store

	Transactions      *Collection[models.Transaction, *models.Transaction]
	RecurringExpenses *Collection[models.RecurringExpense, *models.RecurringExpense]
	Goals             *Collection[models.SavingsGoal, *models.SavingsGoal]
	Bills             *Collection[models.Bill, *models.Bill]
	Assets            *Collection[models.Asset, *models.Asset]
	Liabilities       *Collection[models.Liability, *models.Liability]
	ForumPosts        *Collection[models.ForumPost, *models.ForumPost]
	Challenges        *Collection[models.Challenge, *models.Challenge]
	Badges            *Collection[models.Badge, *models.Badge]
	Investments       *Collection[models.Investment, *models.Investment]
	SplitExpenses     *Collection[models.SplitExpense, *models.SplitExpense]
	Documents         *Collection[models.Document, *models.Document]
	LinkedAccounts    *Collection[models.LinkedAccount, *models.LinkedAccount]

	savers map[string]Saver

	mu       sync.Mutex
	settings *models.Settings
	profile  *models.UserProfile
}

// NewState creates empty managers over store. Call Load before use.
func NewState(store storage.Store) *State {
	ids := NewIDGenerator()
	s := &State{
		store:             store,
		Transactions:      NewCollection[models.Transaction](store, ids, models.CollectionTransactions),
		RecurringExpenses: NewCollection[models.RecurringExpense](store, ids, models.CollectionRecurringExpenses),
		Goals:             NewCollection[models.SavingsGoal](store, ids, models.CollectionSavingsGoals),
		Bills:             NewCollection[models.Bill](store, ids, models.CollectionBills),
		Assets:            NewCollection[models.Asset](store, ids, models.CollectionAssets),
		Liabilities:       NewCollection[models.Liability](store, ids, models.CollectionLiabilities),
		ForumPosts:        NewCollection[models.ForumPost](store, ids, models.CollectionForumPosts),
		Challenges:        NewCollection[models.Challenge](store, ids, models.CollectionChallenges),
		Badges:            NewCollection[models.Badge](store, ids, models.CollectionBadges),
		Investments:       NewCollection[models.Investment](store, ids, models.CollectionInvestments),
		SplitExpenses:     NewCollection[models.SplitExpense](store, ids, models.CollectionSplitExpenses),
		Documents:         NewCollection[models.Document](store, ids, models.CollectionDocuments),
		LinkedAccounts:    NewCollection[models.LinkedAccount](store, ids, models.CollectionLinkedAccounts),
	}

	s.savers = make(map[string]Saver)
	for _, sv := range []Saver{
		s.Transactions, s.RecurringExpenses, s.Goals, s.Bills, s.Assets,
		s.Liabilities, s.ForumPosts, s.Challenges, s.Badges, s.Investments,
		s.SplitExpenses, s.Documents, s.LinkedAccounts,
	} {
		s.savers[sv.Name()] = sv
	}
	return s
}

// Saver returns the manager for a keyed collection name.
func (s *State) Saver(name string) (Saver, bool) {
	sv, ok := s.savers[name]
	return sv, ok
}

// Load seeds an empty store and reads every collection into memory.
func (s *State) Load(ctx context.Context) error {
	if _, err := seed.Seed(ctx, s.store); err != nil {
		return err
	}

	for _, name := range models.KeyedCollections {
		if err := s.savers[name].Load(ctx); err != nil {
			return err
		}
	}

	settings, err := getSingleton[models.Settings](ctx, s.store, models.CollectionSettings, models.SettingsKey)
	if err != nil {
		return err
	}
	profile, err := getSingleton[models.UserProfile](ctx, s.store, models.CollectionUserProfile, models.ProfileKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.profile = profile
	s.mu.Unlock()

	slog.Info("State loaded", "transactions", s.Transactions.Len(), "bills", s.Bills.Len())
	return nil
}

func getSingleton[T any](ctx context.Context, store storage.Store, collection, key string) (*T, error) {
	raw, err := store.Get(ctx, collection, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return &v, nil
}

// Settings returns the current settings, or false before any were saved.
func (s *State) Settings() (models.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return models.Settings{}, false
	}
	return *s.settings, true
}

// SaveSettings persists the settings singleton.
func (s *State) SaveSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Put(ctx, models.CollectionSettings, models.SettingsKey, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.settings = &settings
	return nil
}

// Profile returns the user profile, or false before onboarding completed.
func (s *State) Profile() (models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.UserProfile{}, false
	}
	return *s.profile, true
}

// SaveProfile persists the profile singleton.
func (s *State) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Put(ctx, models.CollectionUserProfile, models.ProfileKey, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.profile = &profile
	return nil
}

// SetMonthlyIncome updates the profile's income. It reports false and writes
// nothing when no profile exists.
func (s *State) SetMonthlyIncome(ctx context.Context, income float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return false, nil
	}
	updated := *s.profile
	updated.MonthlyIncome = income
	if err := s.store.Put(ctx, models.CollectionUserProfile, models.ProfileKey, updated); err != nil {
		return false, fmt.Errorf("failed to update income: %w", err)
	}
	s.profile = &updated
	return true, nil
}

// NetWorthItems lists assets followed by liabilities.
func (s *State) NetWorthItems() []models.NetWorthItem {
	assets := s.Assets.List()
	liabilities := s.Liabilities.List()

	items := make([]models.NetWorthItem, 0, len(assets)+len(liabilities))
	for _, a := range assets {
		items = append(items, models.NetWorthAsset(a))
	}
	for _, l := range liabilities {
		items = append(items, models.NetWorthLiability(l))
	}
	return items
}

// Wipe clears the store and then every in-memory collection and singleton.
// If the store wipe fails, memory is left alone.
func (s *State) Wipe(ctx context.Context) error {
	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("failed to wipe data: %w", err)
	}

	for _, sv := range s.savers {
		sv.reset()
	}
	s.mu.Lock()
	s.settings = nil
	s.profile = nil
	s.mu.Unlock()

	slog.Info("All user data wiped")
	return nil
}
