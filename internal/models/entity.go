package models

// Entity is a record stored in a keyed collection.
type Entity interface {
	// EntityID returns the record's ID, or "" before the first save.
	EntityID() string

	// SetEntityID assigns the ID. It is called once by the entity manager.
	SetEntityID(id string)
}

// Collection names. The order of Collections is the declaration order used by
// the store schema.
const (
	CollectionUserProfile       = "userProfile"
	CollectionSettings          = "settings"
	CollectionTransactions      = "transactions"
	CollectionRecurringExpenses = "recurringExpenses"
	CollectionSavingsGoals      = "savingsGoals"
	CollectionBills             = "bills"
	CollectionAssets            = "assets"
	CollectionLiabilities       = "liabilities"
	CollectionForumPosts        = "forumPosts"
	CollectionChallenges        = "challenges"
	CollectionBadges            = "badges"
	CollectionInvestments       = "investments"
	CollectionSplitExpenses     = "splitExpenses"
	CollectionDocuments         = "documents"
	CollectionLinkedAccounts    = "linkedAccounts"
	CollectionMeta              = "meta"
)

// Singleton keys.
const (
	ProfileKey  = "main"
	SettingsKey = "userSettings"
	SeededKey   = "seeded"
)

// SingletonCollections are addressed by a fixed key rather than by record ID.
var SingletonCollections = []string{
	CollectionUserProfile,
	CollectionSettings,
	CollectionMeta,
}

// KeyedCollections hold Entity records keyed by their ID.
var KeyedCollections = []string{
	CollectionTransactions,
	CollectionRecurringExpenses,
	CollectionSavingsGoals,
	CollectionBills,
	CollectionAssets,
	CollectionLiabilities,
	CollectionForumPosts,
	CollectionChallenges,
	CollectionBadges,
	CollectionInvestments,
	CollectionSplitExpenses,
	CollectionDocuments,
	CollectionLinkedAccounts,
}
