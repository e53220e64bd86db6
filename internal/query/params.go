// Package query runs paginated, sorted listings against the item store.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/abgdnv/shoecatalog/internal/model"
)

// Query parameter names understood by ParsePage and ParseSort.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSortBy = "sortBy"
	ParamOrder  = "order"
)

// sortable is the whitelist of fields a caller may sort by.
var sortable = map[string]struct{}{
	model.FieldName:      {},
	model.FieldBrand:     {},
	model.FieldCategory:  {},
	model.FieldPrice:     {},
	model.FieldCreatedAt: {},
	model.FieldUpdatedAt: {},
}

// Config carries the listing defaults.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	DefaultSort  Sort
}

// DefaultConfig returns 12 items per page, at most 100, newest first.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 12,
		MaxLimit:     100,
		DefaultSort:  Sort{Field: model.FieldCreatedAt, Desc: true},
	}
}

// Sort orders a listing by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Page is a 1-indexed page window.
type Page struct {
	Number int
	Limit  int
}

// Skip returns the number of items before this page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// ParsePage coerces raw page and limit values.
// Missing, unparseable or non-positive values fall back to page 1 and the default limit;
// the limit is capped at MaxLimit. The page is clamped so Skip never overflows.
func (c Config) ParsePage(rawPage, rawLimit string) Page {
	page := positiveInt(rawPage, 1)
	limit := positiveInt(rawLimit, c.DefaultLimit)
	if c.MaxLimit > 0 && limit > c.MaxLimit {
		limit = c.MaxLimit
	}
	if maxPage := math.MaxInt64 / int64(max(limit, 1)); int64(page) > maxPage {
		page = int(maxPage)
	}
	return Page{Number: page, Limit: limit}
}

// ParseSort coerces raw sortBy and order values.
// Unknown fields fall back to the default sort. Order "asc" sorts ascending; any other order descending.
func (c Config) ParseSort(rawField, rawOrder string) Sort {
	field := strings.TrimSpace(rawField)
	order := strings.ToLower(strings.TrimSpace(rawOrder))
	if _, ok := sortable[field]; !ok {
		s := c.DefaultSort
		if order != "" {
			s.Desc = order != "asc"
		}
		return s
	}
	return Sort{Field: field, Desc: order != "asc"}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
