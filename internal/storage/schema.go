package storage

import (
	"fmt"

	"github.com/mmynk/smartfinance/internal/models"
)

// CollectionSpec declares one named collection.
type CollectionSpec struct {
	Name string

	// KeyPath is the record field used as primary key ("id"), or empty for
	// singleton collections addressed by an explicit fixed key.
	KeyPath string
}

// Schema is the versioned list of collections a store must provide.
// Opening a store with a higher Version than the one on disk creates the
// missing collections and leaves existing ones untouched.
type Schema struct {
	Name        string
	Version     int
	Collections []CollectionSpec
}

// Has reports whether the schema declares a collection.
func (s Schema) Has(name string) bool {
	for _, c := range s.Collections {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Validate checks for empty or duplicate collection names.
func (s Schema) Validate() error {
	if s.Version < 1 {
		return fmt.Errorf("schema %q: version must be positive, got %d", s.Name, s.Version)
	}
	seen := make(map[string]bool, len(s.Collections))
	for _, c := range s.Collections {
		if c.Name == "" {
			return fmt.Errorf("schema %q: empty collection name", s.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema %q: duplicate collection %q", s.Name, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// DefaultSchema is the SmartFinance data layout. Version 2 added the meta
// collection.
func DefaultSchema() Schema {
	schema := Schema{Name: "SmartFinanceDB", Version: 2}
	for _, name := range models.SingletonCollections {
		schema.Collections = append(schema.Collections, CollectionSpec{Name: name})
	}
	for _, name := range models.KeyedCollections {
		schema.Collections = append(schema.Collections, CollectionSpec{Name: name, KeyPath: "id"})
	}
	return schema
}
