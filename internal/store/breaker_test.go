package store

import (
	"context"
	"errors"
	"testing"
	"time"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore is an ItemStore whose every call returns err.
type failingStore struct {
	ItemStore
	err   error
	calls int
}

func (f *failingStore) FindByID(_ context.Context, _ model.ID) (*model.Item, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) Count(_ context.Context, _ filter.Predicate) (int64, error) {
	f.calls++
	return 0, f.err
}

var breakerCfg = config.CircuitBreakerConfig{
	ConsecutiveFailures: 2,
	ErrorRatePercent:    50,
	OpenTimeout:         time.Minute,
}

func Test_BreakerStore_OpensOnInfrastructureFailures(t *testing.T) {
	// given
	inner := &failingStore{err: errors.New("connection refused")}
	s := NewBreakerStore(inner, breakerCfg)

	// when
	for range 3 {
		_, err := s.Count(context.Background(), nil)
		require.Error(t, err)
	}
	_, err := s.Count(context.Background(), nil)

	// then
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the store")
}

func Test_BreakerStore_IgnoresDomainOutcomes(t *testing.T) {
	// given
	inner := &failingStore{err: perrors.ErrItemNotFound}
	s := NewBreakerStore(inner, breakerCfg)

	// when
	for range 10 {
		_, err := s.FindByID(context.Background(), model.NewID())
		// then
		require.ErrorIs(t, err, perrors.ErrItemNotFound)
	}
	assert.Equal(t, 10, inner.calls)
}

func Test_BreakerStore_PassesResults(t *testing.T) {
	// given
	s := NewBreakerStore(NewInMemoryStore(), breakerCfg)
	ctx := context.Background()

	// when
	created, err := s.Insert(ctx, model.Item{Name: "Air", Sizes: []float64{9}, Colors: []string{"Red"}})
	require.NoError(t, err)
	fetched, err := s.FindByID(ctx, created.ID)

	// then
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = s.Insert(ctx, model.Item{Name: "Air"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
