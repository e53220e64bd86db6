// Package store provides an interface for catalog item storage operations.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
)

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// DuplicateKeyError names the field whose unique index rejected a write.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("duplicate key on %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("duplicate key on %q", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// SortField orders results by one document field.
type SortField struct {
	Field string
	Desc  bool
}

// FindOptions controls ordering and windowing of Find.
type FindOptions struct {
	Sort  []SortField
	Skip  int64
	Limit int64 // 0 means no limit
}

// ItemStore is an interface for item storage operations.
// It abstracts the underlying document store, allowing for different implementations (e.g., in-memory, MongoDB).
type ItemStore interface {
	// Find returns items matching p, ordered and windowed by opts.
	// Returns an empty slice if nothing matches.
	Find(ctx context.Context, p filter.Predicate, opts FindOptions) ([]model.Item, error)

	// Count returns the number of items matching p.
	Count(ctx context.Context, p filter.Predicate) (int64, error)

	// FindByID retrieves a single item regardless of its tombstone state.
	// Returns ErrItemNotFound if no item exists with the given ID.
	FindByID(ctx context.Context, id model.ID) (*model.Item, error)

	// Insert stores a new item, assigning its ID and timestamps.
	// Returns a *DuplicateKeyError if a unique index rejects it.
	Insert(ctx context.Context, item model.Item) (*model.Item, error)

	// UpdateByID atomically applies change and returns the item as it is after the update.
	// Returns ErrItemNotFound if no item exists with the given ID, *DuplicateKeyError on a unique index violation.
	UpdateByID(ctx context.Context, id model.ID, change model.Change) (*model.Item, error)

	// DeleteByID atomically removes an item and returns what was removed.
	// Returns ErrItemNotFound if no item exists with the given ID.
	DeleteByID(ctx context.Context, id model.ID) (*model.Item, error)
}
