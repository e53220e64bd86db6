package filter

import (
	"fmt"
	"strings"

	"github.com/abgdnv/shoecatalog/internal/model"
)

// Match evaluates p against item in process.
// Unknown fields never match, except under NotTrue where a missing value counts as not true.
func Match(p Predicate, item model.Item) bool {
	switch p := p.(type) {
	case nil:
		return true
	case And:
		for _, c := range p {
			if !Match(c, item) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range p {
			if Match(c, item) {
				return true
			}
		}
		return false
	case Contains:
		s, ok := stringField(item, p.Field)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(p.Term))
	case Equals:
		v, ok := scalarField(item, p.Field)
		return ok && equalValues(v, p.Value)
	case Range:
		v, ok := numberField(item, p.Field)
		if !ok {
			return false
		}
		if p.Min != nil && v < *p.Min {
			return false
		}
		if p.Max != nil && v > *p.Max {
			return false
		}
		return true
	case HasElement:
		return hasElement(item, p.Field, p.Value)
	case HasAll:
		for _, v := range p.Values {
			if !hasElement(item, p.Field, v) {
				return false
			}
		}
		return true
	case NotTrue:
		v, ok := scalarField(item, p.Field)
		b, isBool := v.(bool)
		return !ok || !isBool || !b
	default:
		panic(fmt.Sprintf("filter: unsupported predicate %T", p))
	}
}

func stringField(item model.Item, field string) (string, bool) {
	switch field {
	case model.FieldName:
		return item.Name, true
	case model.FieldBrand:
		return item.Brand, true
	case model.FieldDescription:
		return item.Description, true
	case model.FieldCategory:
		return item.Category, true
	default:
		return "", false
	}
}

func numberField(item model.Item, field string) (float64, bool) {
	if field == model.FieldPrice {
		return float64(item.Price), true
	}
	return 0, false
}

func scalarField(item model.Item, field string) (any, bool) {
	if s, ok := stringField(item, field); ok {
		return s, true
	}
	if n, ok := numberField(item, field); ok {
		return n, true
	}
	switch field {
	case model.FieldInStock:
		return item.InStock, true
	case model.FieldIsDeleted:
		return item.IsDeleted, true
	default:
		return nil, false
	}
}

func hasElement(item model.Item, field string, value any) bool {
	switch field {
	case model.FieldSizes:
		want, ok := toFloat(value)
		if !ok {
			return false
		}
		for _, s := range item.Sizes {
			if s == want {
				return true
			}
		}
	case model.FieldColors:
		want, ok := value.(string)
		if !ok {
			return false
		}
		for _, c := range item.Colors {
			if c == want {
				return true
			}
		}
	}
	return false
}

func equalValues(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
