package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
)

// inMemory implements ItemStore using an in-memory map.
// The name index is checked under the write lock, so uniqueness holds across concurrent writers.
type inMemory struct {
	mu    sync.RWMutex
	items map[model.ID]model.Item
	names map[string]model.ID
	now   func() time.Time
}

// NewInMemoryStore creates a new instance of ItemStore
func NewInMemoryStore() ItemStore {
	return &inMemory{
		items: make(map[model.ID]model.Item),
		names: make(map[string]model.ID),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Find returns matching items ordered and windowed by opts.
func (s *inMemory) Find(_ context.Context, p filter.Predicate, opts FindOptions) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Item, 0)
	for _, it := range s.items {
		if filter.Match(p, it) {
			list = append(list, clone(it))
		}
	}
	slices.SortStableFunc(list, func(a, b model.Item) int {
		for _, sf := range opts.Sort {
			c := compareField(a, b, sf.Field)
			if sf.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	skip := max(opts.Skip, 0)
	if skip >= int64(len(list)) {
		return []model.Item{}, nil
	}
	list = list[skip:]
	if opts.Limit > 0 && opts.Limit < int64(len(list)) {
		list = list[:opts.Limit]
	}
	return list, nil
}

// Count returns the number of matching items.
func (s *inMemory) Count(_ context.Context, p filter.Predicate) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, it := range s.items {
		if filter.Match(p, it) {
			n++
		}
	}
	return n, nil
}

// FindByID retrieves an item by its ID.
func (s *inMemory) FindByID(_ context.Context, id model.ID) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, errors.ErrItemNotFound
	}
	it = clone(it)
	return &it, nil
}

// Insert creates a new item and returns it.
func (s *inMemory) Insert(_ context.Context, item model.Item) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.names[item.Name]; taken {
		return nil, &DuplicateKeyError{Field: model.FieldName}
	}
	now := s.now()
	item = clone(item)
	item.ID = model.NewID()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Images == nil {
		item.Images = []string{}
	}
	s.items[item.ID] = item
	s.names[item.Name] = item.ID

	out := clone(item)
	return &out, nil
}

// UpdateByID applies change to an item and returns the updated item.
func (s *inMemory) UpdateByID(_ context.Context, id model.ID, change model.Change) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil, errors.ErrItemNotFound
	}
	oldName := it.Name
	it = clone(it)
	change.ApplyTo(&it)
	if it.Name != oldName {
		if owner, taken := s.names[it.Name]; taken && owner != id {
			return nil, &DuplicateKeyError{Field: model.FieldName}
		}
		delete(s.names, oldName)
		s.names[it.Name] = id
	}
	it.UpdatedAt = s.now()
	s.items[id] = it

	out := clone(it)
	return &out, nil
}

// DeleteByID deletes an item by its ID and returns it.
func (s *inMemory) DeleteByID(_ context.Context, id model.ID) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, exists := s.items[id]
	if !exists {
		return nil, errors.ErrItemNotFound
	}
	delete(s.items, id)
	delete(s.names, it.Name)
	return &it, nil
}

func clone(it model.Item) model.Item {
	it.Sizes = slices.Clone(it.Sizes)
	it.Colors = slices.Clone(it.Colors)
	it.Images = slices.Clone(it.Images)
	if it.DeletedAt != nil {
		t := *it.DeletedAt
		it.DeletedAt = &t
	}
	if it.RestoredAt != nil {
		t := *it.RestoredAt
		it.RestoredAt = &t
	}
	return it
}

func compareField(a, b model.Item, field string) int {
	switch field {
	case model.FieldID:
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	case model.FieldName:
		return strings.Compare(a.Name, b.Name)
	case model.FieldBrand:
		return strings.Compare(a.Brand, b.Brand)
	case model.FieldCategory:
		return strings.Compare(a.Category, b.Category)
	case model.FieldPrice:
		return cmp.Compare(a.Price, b.Price)
	case model.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case model.FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return 0
	}
}
