package store

import (
	"context"
	"errors"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/pkg/breaker"
	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// breakerStore wraps an ItemStore with a circuit breaker.
// Domain outcomes (not found, duplicate key, caller cancellation) never count as failures.
type breakerStore struct {
	next ItemStore
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore decorates next with a circuit breaker configured by cfg.
func NewBreakerStore(next ItemStore, cfg config.CircuitBreakerConfig) ItemStore {
	return &breakerStore{next: next, cb: breaker.New[any]("catalog-store-cb", cfg, isSuccessful)}
}

func isSuccessful(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, perrors.ErrItemNotFound),
		errors.Is(err, ErrDuplicateKey),
		errors.Is(err, context.Canceled):
		return true
	default:
		return false
	}
}

// run executes fn through the breaker and restores its typed result.
func run[T any](b *breakerStore, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (b *breakerStore) Find(ctx context.Context, p filter.Predicate, opts FindOptions) ([]model.Item, error) {
	return run(b, func() ([]model.Item, error) { return b.next.Find(ctx, p, opts) })
}

func (b *breakerStore) Count(ctx context.Context, p filter.Predicate) (int64, error) {
	return run(b, func() (int64, error) { return b.next.Count(ctx, p) })
}

func (b *breakerStore) FindByID(ctx context.Context, id model.ID) (*model.Item, error) {
	return run(b, func() (*model.Item, error) { return b.next.FindByID(ctx, id) })
}

func (b *breakerStore) Insert(ctx context.Context, item model.Item) (*model.Item, error) {
	return run(b, func() (*model.Item, error) { return b.next.Insert(ctx, item) })
}

func (b *breakerStore) UpdateByID(ctx context.Context, id model.ID, change model.Change) (*model.Item, error) {
	return run(b, func() (*model.Item, error) { return b.next.UpdateByID(ctx, id, change) })
}

func (b *breakerStore) DeleteByID(ctx context.Context, id model.ID) (*model.Item, error) {
	return run(b, func() (*model.Item, error) { return b.next.DeleteByID(ctx, id) })
}
