// Package model defines the catalog item record and the changes applied to it.
package model

import (
	"fmt"
	"time"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document field names, shared by the filter builder, the stores and the sort whitelist.
const (
	FieldID          = "_id"
	FieldName        = "name"
	FieldBrand       = "brand"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSizes       = "sizes"
	FieldCategory    = "category"
	FieldColors      = "colors"
	FieldInStock     = "inStock"
	FieldImages      = "images"
	FieldIsDeleted   = "isDeleted"
	FieldDeletedAt   = "deletedAt"
	FieldRestoredAt  = "restoredAt"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// ID is the opaque item identifier assigned by the store.
type ID = primitive.ObjectID

// NewID returns a fresh identifier.
func NewID() ID {
	return primitive.NewObjectID()
}

// ParseID checks the syntactic form of a raw identifier.
// Returns ErrInvalidID for anything that is not a 24 character hex object id.
func ParseID(raw string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", perrors.ErrInvalidID, raw)
	}
	return id, nil
}

// Item is a catalog record.
type Item struct {
	ID          ID         `json:"id"                   bson:"_id"`
	Name        string     `json:"name"                 bson:"name"`
	Brand       string     `json:"brand"                bson:"brand"`
	Description string     `json:"description"          bson:"description"`
	Price       int64      `json:"price"                bson:"price"` // cents
	Sizes       []float64  `json:"sizes"                bson:"sizes"`
	Category    string     `json:"category"             bson:"category"`
	Colors      []string   `json:"colors"               bson:"colors"`
	InStock     bool       `json:"inStock"              bson:"inStock"`
	Images      []string   `json:"images"               bson:"images"`
	IsDeleted   bool       `json:"isDeleted"            bson:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"  bson:"deletedAt,omitempty"`
	RestoredAt  *time.Time `json:"restoredAt,omitempty" bson:"restoredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"            bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"            bson:"updatedAt"`
}

// Fields is a set of user-writable item fields. A nil field is absent and left untouched.
type Fields struct {
	Name        *string
	Brand       *string
	Description *string
	Price       *int64
	Sizes       []float64
	Category    *string
	Colors      []string
	InStock     *bool
	Images      *[]string
}

// NewItem builds a live item from a fully populated field set.
// The store assigns the identifier and timestamps on insert.
func NewItem(f Fields) Item {
	var item Item
	f.ApplyTo(&item)
	if item.Images == nil {
		item.Images = []string{}
	}
	return item
}

// ApplyTo copies every present field onto item.
func (f Fields) ApplyTo(item *Item) {
	if f.Name != nil {
		item.Name = *f.Name
	}
	if f.Brand != nil {
		item.Brand = *f.Brand
	}
	if f.Description != nil {
		item.Description = *f.Description
	}
	if f.Price != nil {
		item.Price = *f.Price
	}
	if f.Sizes != nil {
		item.Sizes = append([]float64(nil), f.Sizes...)
	}
	if f.Category != nil {
		item.Category = *f.Category
	}
	if f.Colors != nil {
		item.Colors = append([]string(nil), f.Colors...)
	}
	if f.InStock != nil {
		item.InStock = *f.InStock
	}
	if f.Images != nil {
		item.Images = append([]string{}, (*f.Images)...)
	}
}

// Set returns the present fields keyed by document field name.
func (f Fields) Set() map[string]any {
	set := make(map[string]any)
	if f.Name != nil {
		set[FieldName] = *f.Name
	}
	if f.Brand != nil {
		set[FieldBrand] = *f.Brand
	}
	if f.Description != nil {
		set[FieldDescription] = *f.Description
	}
	if f.Price != nil {
		set[FieldPrice] = *f.Price
	}
	if f.Sizes != nil {
		set[FieldSizes] = f.Sizes
	}
	if f.Category != nil {
		set[FieldCategory] = *f.Category
	}
	if f.Colors != nil {
		set[FieldColors] = f.Colors
	}
	if f.InStock != nil {
		set[FieldInStock] = *f.InStock
	}
	if f.Images != nil {
		set[FieldImages] = *f.Images
	}
	return set
}

// Change describes a single-record update: user fields plus lifecycle markers.
type Change struct {
	Fields     Fields
	IsDeleted  *bool
	DeletedAt  *time.Time
	RestoredAt *time.Time
	// Unset lists lifecycle timestamp fields to clear.
	Unset []string
}

// Set returns every value the change writes, keyed by document field name.
func (c Change) Set() map[string]any {
	set := c.Fields.Set()
	if c.IsDeleted != nil {
		set[FieldIsDeleted] = *c.IsDeleted
	}
	if c.DeletedAt != nil {
		set[FieldDeletedAt] = *c.DeletedAt
	}
	if c.RestoredAt != nil {
		set[FieldRestoredAt] = *c.RestoredAt
	}
	return set
}

// ApplyTo mutates item as the store would.
func (c Change) ApplyTo(item *Item) {
	c.Fields.ApplyTo(item)
	if c.IsDeleted != nil {
		item.IsDeleted = *c.IsDeleted
	}
	if c.DeletedAt != nil {
		t := *c.DeletedAt
		item.DeletedAt = &t
	}
	if c.RestoredAt != nil {
		t := *c.RestoredAt
		item.RestoredAt = &t
	}
	for _, field := range c.Unset {
		switch field {
		case FieldDeletedAt:
			item.DeletedAt = nil
		case FieldRestoredAt:
			item.RestoredAt = nil
		}
	}
}
