package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReader is a mock Reader that records the options it receives.
type recordingReader struct {
	items    []model.Item
	total    int64
	err      error
	lastOpts store.FindOptions
}

func (r *recordingReader) Find(_ context.Context, _ filter.Predicate, opts store.FindOptions) ([]model.Item, error) {
	r.lastOpts = opts
	return r.items, r.err
}

func (r *recordingReader) Count(_ context.Context, _ filter.Predicate) (int64, error) {
	return r.total, r.err
}

func Test_PageCount(t *testing.T) {
	testCases := []struct {
		total    int64
		limit    int
		expected int64
	}{
		{total: 0, limit: 12, expected: 0},
		{total: 1, limit: 12, expected: 1},
		{total: 12, limit: 12, expected: 1},
		{total: 13, limit: 12, expected: 2},
		{total: 5, limit: 0, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d/%d", tc.total, tc.limit), func(t *testing.T) {
			assert.Equal(t, tc.expected, PageCount(tc.total, tc.limit))
		})
	}
}

func Test_Executor_Execute(t *testing.T) {
	// given
	reader := &recordingReader{items: []model.Item{{Name: "A"}}, total: 25}
	exec := NewExecutor(reader)
	sort := Sort{Field: model.FieldPrice}

	// when
	res, err := exec.Execute(context.Background(), filter.Live(), sort, Page{Number: 3, Limit: 10})

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, int64(3), res.Pages)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, store.FindOptions{
		Sort:  []store.SortField{{Field: model.FieldPrice}, {Field: model.FieldID}},
		Skip:  20,
		Limit: 10,
	}, reader.lastOpts)
}

func Test_Executor_Execute_StoreError(t *testing.T) {
	// given
	storeErr := errors.New("store down")
	exec := NewExecutor(&recordingReader{err: storeErr})

	// when
	_, err := exec.Execute(context.Background(), filter.Live(), DefaultConfig().DefaultSort, Page{Number: 1, Limit: 12})

	// then
	require.ErrorIs(t, err, storeErr)
}

func Test_Executor_Execute_InMemory(t *testing.T) {
	// given
	s := store.NewInMemoryStore()
	ctx := context.Background()
	for i, price := range []int64{300, 100, 200, 100} {
		_, err := s.Insert(ctx, model.Item{Name: fmt.Sprintf("item-%d", i), Price: price, Sizes: []float64{9}, Colors: []string{"Red"}})
		require.NoError(t, err)
	}
	exec := NewExecutor(s)
	cfg := DefaultConfig()

	// when
	res, err := exec.Execute(ctx, filter.Build(url.Values{}), cfg.ParseSort("price", "asc"), cfg.ParsePage("1", "3"))

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total, "total is independent of the page window")
	assert.Equal(t, int64(2), res.Pages)
	require.Len(t, res.Results, 3)
	assert.Equal(t, int64(100), res.Results[0].Price)
	assert.Equal(t, int64(100), res.Results[1].Price)
	assert.Equal(t, int64(200), res.Results[2].Price)
	assert.Equal(t, "item-1", res.Results[0].Name, "equal prices break ties by id")

	// when
	again, err := exec.Execute(ctx, filter.Build(url.Values{}), cfg.ParseSort("price", "asc"), cfg.ParsePage("1", "3"))

	// then
	require.NoError(t, err)
	assert.Equal(t, res, again, "listing is repeatable")
}

func Test_Executor_Execute_EmptyStore(t *testing.T) {
	// given
	exec := NewExecutor(store.NewInMemoryStore())

	// when
	res, err := exec.Execute(context.Background(), filter.Live(), DefaultConfig().DefaultSort, Page{Number: 1, Limit: 12})

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
	assert.Equal(t, int64(0), res.Pages)
	assert.Empty(t, res.Results)
}
