package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/moneta/internal/models"
)

// ErrKeyNotFound is returned when a key is not found in the filing store
var ErrKeyNotFound = errors.New("key not found")

// FilingStorage is the durable evidence store for fetched filing tables,
// keyed by the composite "stockid_yearQseason" key.
//
// Entries are written once and never expire: a filing for a closed reporting
// period does not change, so a cached entry is treated as permanently valid.
// This is policy, not an oversight. Corrected filings are handled through
// explicit Delete (manual invalidation).
//
// A stored entry with a nil TableSet is a recorded miss and is distinct from
// an absent key (ErrKeyNotFound).
type FilingStorage interface {
	// Get retrieves the table set stored under key, returns ErrKeyNotFound if absent
	Get(ctx context.Context, key string) (models.TableSet, error)

	// Put stores the table set (possibly nil) under key, overwriting any entry
	Put(ctx context.Context, key string, tables models.TableSet) error

	// Delete removes the entry for key, returns ErrKeyNotFound if absent
	Delete(ctx context.Context, key string) error

	// Keys lists all stored composite keys
	Keys(ctx context.Context) ([]string, error)
}
