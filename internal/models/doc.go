// Package models defines the domain records persisted by SmartFinance.
//
// # Collections
//
// Every keyed record implements Entity and lives in exactly one named
// collection (see the Collection* constants). A record's ID is empty only
// before its first save; the entity manager assigns it and it never changes
// afterwards.
//
// # Singletons
//
// Settings and UserProfile are singleton records. They are stored under a
// fixed key in their own collection rather than by ID, exist at most once per
// user and are only replaced, never deleted, except by a full data wipe.
//
// # Design Principles
//
//  1. Plain records: models carry data and JSON tags, no persistence logic.
//  2. Explicit variants: values that can be one of several shapes (NetWorthItem)
//     carry a discriminator instead of relying on which fields are set.
//  3. String IDs everywhere, never pointers between records.
package models
