package store

import (
	"context"
	"net/url"
	"sync"
	"time"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// storeContractSuite holds behaviour every ItemStore implementation must share.
// Embedding suites set store before each test.
type storeContractSuite struct {
	suite.Suite
	ctx   context.Context
	store ItemStore
}

// createTestItem is a helper function to insert an item for testing purposes.
func (s *storeContractSuite) createTestItem(name, brand string, price int64, sizes []float64, colors ...string) *model.Item {
	s.T().Helper()
	if len(colors) == 0 {
		colors = []string{"Black"}
	}
	item, err := s.store.Insert(s.ctx, model.Item{
		Name:        name,
		Brand:       brand,
		Description: name + " description",
		Category:    "sneakers",
		Price:       price,
		Sizes:       sizes,
		Colors:      colors,
		InStock:     true,
	})
	require.NoError(s.T(), err, "createTestItem helper failed to insert item")
	return item
}

func (s *storeContractSuite) list(query string, opts FindOptions) []string {
	s.T().Helper()
	params, err := url.ParseQuery(query)
	require.NoError(s.T(), err)
	items, err := s.store.Find(s.ctx, filter.Build(params), opts)
	require.NoError(s.T(), err)
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func (s *storeContractSuite) TestInsertAndFindByID() {
	created := s.createTestItem("Air Zoom", "Nike", 14999, []float64{10, 11})

	require.False(s.T(), created.ID.IsZero(), "Created item ID should be set")
	require.False(s.T(), created.CreatedAt.IsZero(), "CreatedAt should be set")
	require.Equal(s.T(), created.CreatedAt, created.UpdatedAt)
	require.NotNil(s.T(), created.Images)
	require.False(s.T(), created.IsDeleted)

	fetched, err := s.store.FindByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, fetched.ID)
	assert.Equal(s.T(), created.Name, fetched.Name)
	assert.Equal(s.T(), created.Sizes, fetched.Sizes)
	assert.Equal(s.T(), created.Colors, fetched.Colors)
	assert.WithinDuration(s.T(), created.CreatedAt, fetched.CreatedAt, time.Millisecond)
}

func (s *storeContractSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(s.ctx, model.NewID())
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)
}

func (s *storeContractSuite) TestInsert_DuplicateName() {
	s.createTestItem("Air Zoom", "Nike", 100, []float64{9})

	_, err := s.store.Insert(s.ctx, model.Item{Name: "Air Zoom", Brand: "Other", Sizes: []float64{9}, Colors: []string{"Red"}})

	require.ErrorIs(s.T(), err, ErrDuplicateKey)
	var dup *DuplicateKeyError
	require.ErrorAs(s.T(), err, &dup)
	assert.Equal(s.T(), model.FieldName, dup.Field)
}

func (s *storeContractSuite) TestInsert_ConcurrentSameNameOnlyOneWins() {
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Insert(s.ctx, model.Item{Name: "Race", Sizes: []float64{9}, Colors: []string{"Red"}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(s.T(), err, ErrDuplicateKey)
	}
	assert.Equal(s.T(), 1, ok, "exactly one insert should win")
}

func (s *storeContractSuite) TestFindAndCount_Filters() {
	s.createTestItem("Air Zoom", "Nike", 14999, []float64{10, 11}, "Red", "White")
	s.createTestItem("Ultraboost", "Adidas", 15000, []float64{9}, "Black")

	byPrice := FindOptions{Sort: []SortField{{Field: model.FieldPrice}}}
	assert.Equal(s.T(), []string{"Air Zoom"}, s.list("brand=NIKE", byPrice))
	assert.Equal(s.T(), []string{"Ultraboost"}, s.list("minPrice=15000", byPrice))
	assert.Equal(s.T(), []string{"Air Zoom"}, s.list("size=10", byPrice))
	assert.Equal(s.T(), []string{"Air Zoom"}, s.list("colors=Red&colors=White", byPrice))
	assert.Empty(s.T(), s.list("colors=Red,Black", byPrice))
	assert.Equal(s.T(), []string{"Air Zoom", "Ultraboost"}, s.list("", byPrice))
	assert.Empty(s.T(), s.list("search=(", byPrice), "search terms are literal")

	total, err := s.store.Count(s.ctx, filter.Build(url.Values{}))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), total)
}

func (s *storeContractSuite) TestFind_SortSkipLimit() {
	s.createTestItem("C", "x", 300, []float64{9})
	s.createTestItem("A", "x", 100, []float64{9})
	s.createTestItem("B", "x", 200, []float64{9})

	desc := FindOptions{Sort: []SortField{{Field: model.FieldPrice, Desc: true}}}
	assert.Equal(s.T(), []string{"C", "B", "A"}, s.list("", desc))

	window := FindOptions{Sort: []SortField{{Field: model.FieldName}}, Skip: 1, Limit: 1}
	assert.Equal(s.T(), []string{"B"}, s.list("", window))

	beyond := FindOptions{Sort: []SortField{{Field: model.FieldName}}, Skip: 10, Limit: 5}
	assert.Empty(s.T(), s.list("", beyond))
	negative := FindOptions{Sort: []SortField{{Field: model.FieldName}}, Skip: -24, Limit: 2}
	assert.Equal(s.T(), []string{"A", "B"}, s.list("", negative))
}

func (s *storeContractSuite) TestUpdateByID_Partial() {
	created := s.createTestItem("Air Zoom", "Nike", 14999, []float64{10})
	price := int64(9999)

	updated, err := s.store.UpdateByID(s.ctx, created.ID, model.Change{Fields: model.Fields{Price: &price}})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(9999), updated.Price)
	assert.Equal(s.T(), created.Name, updated.Name)
	assert.Equal(s.T(), created.Brand, updated.Brand)
	assert.Equal(s.T(), created.Sizes, updated.Sizes)
	assert.False(s.T(), updated.UpdatedAt.Before(created.UpdatedAt))
}

func (s *storeContractSuite) TestUpdateByID_LifecycleMarkers() {
	created := s.createTestItem("Air Zoom", "Nike", 14999, []float64{10})
	yes, no := true, false
	deletedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	restoredAt := deletedAt.Add(time.Hour)

	deleted, err := s.store.UpdateByID(s.ctx, created.ID, model.Change{
		IsDeleted: &yes, DeletedAt: &deletedAt, Unset: []string{model.FieldRestoredAt},
	})
	require.NoError(s.T(), err)
	assert.True(s.T(), deleted.IsDeleted)
	require.NotNil(s.T(), deleted.DeletedAt)
	assert.True(s.T(), deletedAt.Equal(*deleted.DeletedAt))
	assert.Nil(s.T(), deleted.RestoredAt)
	assert.Empty(s.T(), s.list("", FindOptions{}), "tombstoned items are hidden from listings")

	restored, err := s.store.UpdateByID(s.ctx, created.ID, model.Change{IsDeleted: &no, RestoredAt: &restoredAt})
	require.NoError(s.T(), err)
	assert.False(s.T(), restored.IsDeleted)
	require.NotNil(s.T(), restored.RestoredAt)
	require.NotNil(s.T(), restored.DeletedAt, "deletedAt is kept as history")
	assert.Equal(s.T(), []string{"Air Zoom"}, s.list("", FindOptions{}))
}

func (s *storeContractSuite) TestUpdateByID_NotFound() {
	price := int64(1)
	_, err := s.store.UpdateByID(s.ctx, model.NewID(), model.Change{Fields: model.Fields{Price: &price}})
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)
}

func (s *storeContractSuite) TestUpdateByID_DuplicateName() {
	s.createTestItem("Air Zoom", "Nike", 100, []float64{10})
	other := s.createTestItem("Ultraboost", "Adidas", 200, []float64{9})
	name := "Air Zoom"

	_, err := s.store.UpdateByID(s.ctx, other.ID, model.Change{Fields: model.Fields{Name: &name}})

	var dup *DuplicateKeyError
	require.ErrorAs(s.T(), err, &dup)
	assert.Equal(s.T(), model.FieldName, dup.Field)

	fetched, err := s.store.FindByID(s.ctx, other.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Ultraboost", fetched.Name, "rejected update must not be applied")
}

func (s *storeContractSuite) TestUpdateByID_KeepOwnName() {
	created := s.createTestItem("Air Zoom", "Nike", 100, []float64{10})
	name := "Air Zoom"

	_, err := s.store.UpdateByID(s.ctx, created.ID, model.Change{Fields: model.Fields{Name: &name}})

	require.NoError(s.T(), err)
}

func (s *storeContractSuite) TestDeleteByID() {
	created := s.createTestItem("Air Zoom", "Nike", 100, []float64{10})

	removed, err := s.store.DeleteByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, removed.ID)

	_, err = s.store.FindByID(s.ctx, created.ID)
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)
	_, err = s.store.DeleteByID(s.ctx, created.ID)
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)

	// the name is free again once the record is purged
	s.createTestItem("Air Zoom", "Nike", 100, []float64{10})
}
