package filter

import (
	"net/url"
	"strings"

	"github.com/abgdnv/shoecatalog/internal/model"
)

// Query parameter names understood by Build.
const (
	ParamBrand    = "brand"
	ParamCategory = "category"
	ParamInStock  = "inStock"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamSize     = "size"
	ParamColors   = "colors"
	ParamSearch   = "search"
)

// Live matches items that are not tombstoned.
func Live() Predicate {
	return NotTrue{Field: model.FieldIsDeleted}
}

// Build produces the listing predicate for params.
// Every clause is optional; the result always includes the visibility clause,
// so an empty parameter set matches every live item.
func Build(params url.Values) Predicate {
	clauses := And{Live()}

	if brand := strings.TrimSpace(params.Get(ParamBrand)); brand != "" {
		clauses = append(clauses, Contains{Field: model.FieldBrand, Term: brand})
	}
	if category := strings.TrimSpace(params.Get(ParamCategory)); category != "" {
		clauses = append(clauses, Contains{Field: model.FieldCategory, Term: category})
	}
	if inStock, ok := coerceBool(params.Get(ParamInStock)); ok {
		clauses = append(clauses, Equals{Field: model.FieldInStock, Value: inStock})
	}

	price := Range{Field: model.FieldPrice}
	if minPrice, ok := coerceNumber(params.Get(ParamMinPrice)); ok {
		price.Min = &minPrice
	}
	if maxPrice, ok := coerceNumber(params.Get(ParamMaxPrice)); ok {
		price.Max = &maxPrice
	}
	if price.Min != nil || price.Max != nil {
		clauses = append(clauses, price)
	}

	if size, ok := coerceNumber(params.Get(ParamSize)); ok {
		clauses = append(clauses, HasElement{Field: model.FieldSizes, Value: size})
	}
	if colors := splitList(params[ParamColors]); len(colors) > 0 {
		clauses = append(clauses, HasAll{Field: model.FieldColors, Values: colors})
	}
	if search := strings.TrimSpace(params.Get(ParamSearch)); search != "" {
		clauses = append(clauses, Or{
			Contains{Field: model.FieldName, Term: search},
			Contains{Field: model.FieldDescription, Term: search},
			Contains{Field: model.FieldBrand, Term: search},
		})
	}
	return clauses
}

// Suggest produces the autocomplete predicate: live items whose name or brand contains q.
// ok is false for a blank q, in which case no lookup should happen.
func Suggest(q string) (Predicate, bool) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, false
	}
	return And{
		Live(),
		Or{
			Contains{Field: model.FieldName, Term: q},
			Contains{Field: model.FieldBrand, Term: q},
		},
	}, true
}
