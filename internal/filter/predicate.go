// Package filter turns loosely typed query parameters into a predicate tree over item fields.
// The tree is store-agnostic; each store translates or evaluates it.
package filter

// Predicate is a boolean condition over item fields.
type Predicate interface {
	predicate()
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one child matches. An empty Or matches nothing.
type Or []Predicate

// Contains is a case-insensitive literal substring match on a string field.
type Contains struct {
	Field string
	Term  string
}

// Equals is an exact match on a scalar field.
type Equals struct {
	Field string
	Value any
}

// Range bounds a numeric field inclusively. A nil bound is open.
type Range struct {
	Field string
	Min   *float64
	Max   *float64
}

// HasElement matches when the array field contains Value.
type HasElement struct {
	Field string
	Value any
}

// HasAll matches when the array field contains every one of Values.
type HasAll struct {
	Field  string
	Values []string
}

// NotTrue matches when the boolean field is false or missing.
type NotTrue struct {
	Field string
}

func (And) predicate()        {}
func (Or) predicate()         {}
func (Contains) predicate()   {}
func (Equals) predicate()     {}
func (Range) predicate()      {}
func (HasElement) predicate() {}
func (HasAll) predicate()     {}
func (NotTrue) predicate()    {}
