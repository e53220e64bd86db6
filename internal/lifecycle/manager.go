// Package lifecycle governs the soft-delete, restore and purge transitions of an item.
//
// An item is Live or SoftDeleted; Purged is terminal and means the record is gone.
// Soft delete and restore are idempotent: applying either to an item already in the
// target state succeeds and re-stamps its timestamp.
package lifecycle

import (
	"context"
	"time"

	"github.com/abgdnv/shoecatalog/internal/model"
)

// Writer is the write side of the item store used by the Manager.
type Writer interface {
	UpdateByID(ctx context.Context, id model.ID, change model.Change) (*model.Item, error)
	DeleteByID(ctx context.Context, id model.ID) (*model.Item, error)
}

// Manager applies lifecycle transitions. Each transition is a single atomic store call.
type Manager struct {
	store Writer
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for lifecycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager on top of w.
func NewManager(w Writer, opts ...Option) *Manager {
	m := &Manager{
		store: w,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SoftDelete tombstones the item: isDeleted=true, deletedAt=now, restoredAt cleared.
// Returns ErrInvalidID for a malformed id and ErrItemNotFound when nothing has that id.
func (m *Manager) SoftDelete(ctx context.Context, rawID string) (*model.Item, error) {
	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	yes := true
	now := m.now()
	return m.store.UpdateByID(ctx, id, model.Change{
		IsDeleted: &yes,
		DeletedAt: &now,
		Unset:     []string{model.FieldRestoredAt},
	})
}

// Restore makes the item live again: isDeleted=false, restoredAt=now. deletedAt is kept.
func (m *Manager) Restore(ctx context.Context, rawID string) (*model.Item, error) {
	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	no := false
	now := m.now()
	return m.store.UpdateByID(ctx, id, model.Change{
		IsDeleted:  &no,
		RestoredAt: &now,
	})
}

// Purge permanently removes the item whatever its state and returns the removed record.
func (m *Manager) Purge(ctx context.Context, rawID string) (*model.Item, error) {
	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return m.store.DeleteByID(ctx, id)
}
