package service

import (
	"time"

	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/internal/query"
)

// ItemDto represents the data transfer object for a catalog item.
type ItemDto struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Sizes       []float64  `json:"sizes"`
	Category    string     `json:"category"`
	Colors      []string   `json:"colors"`
	InStock     bool       `json:"inStock"`
	Images      []string   `json:"images"`
	IsDeleted   bool       `json:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	RestoredAt  *time.Time `json:"restoredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListDto is one page of a listing.
type ListDto struct {
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	Pages   int64     `json:"pages"`
	Results []ItemDto `json:"results"`
}

// SuggestionDto is an autocomplete entry.
type SuggestionDto struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

// toDto converts a model.Item to an ItemDto.
func toDto(item *model.Item) *ItemDto {
	return &ItemDto{
		ID:          item.ID.Hex(),
		Name:        item.Name,
		Brand:       item.Brand,
		Description: item.Description,
		Price:       item.Price,
		Sizes:       nonNil(item.Sizes),
		Category:    item.Category,
		Colors:      nonNil(item.Colors),
		InStock:     item.InStock,
		Images:      nonNil(item.Images),
		IsDeleted:   item.IsDeleted,
		DeletedAt:   item.DeletedAt,
		RestoredAt:  item.RestoredAt,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func toListDto(res *query.Result) *ListDto {
	out := &ListDto{
		Total:   res.Total,
		Page:    res.Page,
		Pages:   res.Pages,
		Results: make([]ItemDto, len(res.Results)),
	}
	for i := range res.Results {
		out.Results[i] = *toDto(&res.Results[i])
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
