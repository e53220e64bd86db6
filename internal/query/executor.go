package query

import (
	"context"
	"fmt"

	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/internal/store"
)

// Reader is the read side of the item store.
type Reader interface {
	Find(ctx context.Context, p filter.Predicate, opts store.FindOptions) ([]model.Item, error)
	Count(ctx context.Context, p filter.Predicate) (int64, error)
}

// Result is one page of a listing.
type Result struct {
	Total   int64
	Page    int
	Pages   int64
	Results []model.Item
}

// Executor runs listings. It never mutates the store.
type Executor struct {
	reader Reader
}

// NewExecutor creates an Executor reading from r.
func NewExecutor(r Reader) *Executor {
	return &Executor{reader: r}
}

// Execute returns the page of items matching p in the given order, with the total count of matches.
// Ties on the sort field are broken by id in the same direction.
func (e *Executor) Execute(ctx context.Context, p filter.Predicate, sort Sort, page Page) (*Result, error) {
	if page.Number < 1 || page.Limit < 1 {
		return nil, fmt.Errorf("invalid page %d/%d", page.Number, page.Limit)
	}
	total, err := e.reader.Count(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	items, err := e.reader.Find(ctx, p, store.FindOptions{
		Sort: []store.SortField{
			{Field: sort.Field, Desc: sort.Desc},
			{Field: model.FieldID, Desc: sort.Desc},
		},
		Skip:  page.Skip(),
		Limit: int64(page.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	return &Result{
		Total:   total,
		Page:    page.Number,
		Pages:   PageCount(total, page.Limit),
		Results: items,
	}, nil
}

// PageCount is ceil(total/limit), and 0 when there is nothing to page.
func PageCount(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
