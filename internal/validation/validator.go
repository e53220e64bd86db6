// Package validation checks and coerces raw item input before it is written to the store.
package validation

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/go-playground/validator/v10"
)

// Mode selects between create (every required field must be present) and update semantics.
type Mode int

const (
	// Full requires every mandatory field.
	Full Mode = iota
	// Partial validates only the fields present in the input.
	Partial
)

// Input is a decoded JSON object. Numbers are expected as json.Number (json.Decoder.UseNumber),
// plain Go numeric types are accepted as well.
type Input map[string]any

const (
	msgNameRequired        = "Shoe name is required"
	msgBrandRequired       = "Brand is required"
	msgDescriptionRequired = "Description is required"
	msgPriceRequired       = "Price is required"
	msgPriceInvalid        = "Price must be a positive integer"
	msgSizesRequired       = "At least one valid size is required"
	msgSizesRange          = "Sizes must be greater than 0 and less than 20"
	msgCategoryRequired    = "Category is required"
	msgColorsRequired      = "At least one color is required"
	msgColorsInvalid       = "Colors must be non-empty strings"
	msgInStockRequired     = "In-stock flag is required"
	msgInStockInvalid      = "In-stock flag must be a boolean"
	msgImagesInvalid       = "Images must be a list of URLs"
	msgImageURLInvalid     = "Images must be a valid URL"
)

// Validator applies the item field rules in their declaration order.
// It performs no I/O and is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// rule validates one field. It returns the coerced value setter and a message, or "" when valid.
type rule struct {
	key      string
	required string
	check    func(v *Validator, raw any, out *model.Fields) string
}

var rules = []rule{
	{key: model.FieldName, required: msgNameRequired, check: checkName},
	{key: model.FieldBrand, required: msgBrandRequired, check: checkBrand},
	{key: model.FieldDescription, required: msgDescriptionRequired, check: checkDescription},
	{key: model.FieldPrice, required: msgPriceRequired, check: checkPrice},
	{key: model.FieldSizes, required: msgSizesRequired, check: checkSizes},
	{key: model.FieldCategory, required: msgCategoryRequired, check: checkCategory},
	{key: model.FieldColors, required: msgColorsRequired, check: checkColors},
	{key: model.FieldInStock, required: msgInStockRequired, check: checkInStock},
	{key: model.FieldImages, check: checkImages},
}

// Validate returns the coerced fields, or a *errors.ValidationError listing one message per
// violated field in declaration order.
// In Partial mode absent fields stay nil so an update only touches supplied fields.
func (v *Validator) Validate(in Input, mode Mode) (model.Fields, error) {
	var out model.Fields
	var messages []string
	for _, r := range rules {
		raw, present := in[r.key]
		if !present {
			if mode == Full && r.required != "" {
				messages = append(messages, r.required)
			}
			continue
		}
		if msg := r.check(v, raw, &out); msg != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) > 0 {
		return model.Fields{}, &perrors.ValidationError{Messages: messages}
	}
	if mode == Full && out.Images == nil {
		empty := []string{}
		out.Images = &empty
	}
	return out, nil
}

func checkName(v *Validator, raw any, out *model.Fields) string {
	s, ok := v.trimmedString(raw)
	if !ok {
		return msgNameRequired
	}
	out.Name = &s
	return ""
}

func checkBrand(v *Validator, raw any, out *model.Fields) string {
	s, ok := v.trimmedString(raw)
	if !ok {
		return msgBrandRequired
	}
	out.Brand = &s
	return ""
}

func checkDescription(v *Validator, raw any, out *model.Fields) string {
	s, ok := raw.(string)
	if !ok || v.v.Var(s, "required") != nil {
		return msgDescriptionRequired
	}
	out.Description = &s
	return ""
}

func checkPrice(v *Validator, raw any, out *model.Fields) string {
	price, ok := toInteger(raw)
	if !ok || v.v.Var(price, "min=0") != nil {
		return msgPriceInvalid
	}
	out.Price = &price
	return ""
}

func checkSizes(v *Validator, raw any, out *model.Fields) string {
	list, ok := raw.([]any)
	if !ok || v.v.Var(list, "min=1") != nil {
		return msgSizesRequired
	}
	sizes := make([]float64, 0, len(list))
	seen := make(map[float64]struct{}, len(list))
	for _, el := range list {
		f, ok := toNumber(el)
		if !ok {
			return msgSizesRange
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		sizes = append(sizes, f)
	}
	if v.v.Var(sizes, "dive,gt=0,lt=20") != nil {
		return msgSizesRange
	}
	out.Sizes = sizes
	return ""
}

func checkCategory(v *Validator, raw any, out *model.Fields) string {
	s, ok := v.trimmedString(raw)
	if !ok {
		return msgCategoryRequired
	}
	out.Category = &s
	return ""
}

func checkColors(v *Validator, raw any, out *model.Fields) string {
	list, ok := raw.([]any)
	if !ok || v.v.Var(list, "min=1") != nil {
		return msgColorsRequired
	}
	colors := make([]string, 0, len(list))
	for _, el := range list {
		s, ok := el.(string)
		if !ok {
			return msgColorsInvalid
		}
		colors = append(colors, s)
	}
	if v.v.Var(colors, "dive,required") != nil {
		return msgColorsInvalid
	}
	out.Colors = colors
	return ""
}

func checkInStock(_ *Validator, raw any, out *model.Fields) string {
	b, ok := raw.(bool)
	if !ok {
		return msgInStockInvalid
	}
	out.InStock = &b
	return ""
}

func checkImages(v *Validator, raw any, out *model.Fields) string {
	list, ok := raw.([]any)
	if !ok {
		return msgImagesInvalid
	}
	images := make([]string, 0, len(list))
	for _, el := range list {
		s, ok := el.(string)
		if !ok {
			return msgImageURLInvalid
		}
		images = append(images, s)
	}
	if v.v.Var(images, "dive,url") != nil {
		return msgImageURLInvalid
	}
	out.Images = &images
	return ""
}

// trimmedString accepts a string that is non-empty after trimming and returns it trimmed.
func (v *Validator) trimmedString(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if v.v.Var(s, "required") != nil {
		return "", false
	}
	return s, true
}

// maxExactFloat bounds the integers a float64 holds without rounding.
const maxExactFloat = 1 << 53

// toInteger converts a decoded JSON number to int64 without rounding.
// Numbers are parsed exactly, so forms like 1e2 or 100.0 are accepted only when they denote an integer.
// Plain floats are accepted only below 2^53, where they cannot have been rounded.
func toInteger(raw any) (int64, bool) {
	switch n := raw.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err != nil || math.Abs(f) > math.MaxInt64 {
			return 0, false
		}
		r, ok := new(big.Rat).SetString(n.String())
		if !ok || !r.IsInt() || !r.Num().IsInt64() {
			return 0, false
		}
		return r.Num().Int64(), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return exactInteger(n)
	case float32:
		return exactInteger(float64(n))
	default:
		return 0, false
	}
}

func exactInteger(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.Abs(f) >= maxExactFloat {
		return 0, false
	}
	return int64(f), true
}

// toNumber converts a decoded JSON number to float64.
func toNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
