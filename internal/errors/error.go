// Package errors provides custom error types for catalog item operations.
package errors

import (
	"errors"
	"strings"
)

var ErrItemNotFound = errors.New("shoe not found")
var ErrInvalidID = errors.New("invalid shoe ID")
var ErrDuplicateName = errors.New("shoe name already exists")
var ErrValidation = errors.New("validation failed")

// ValidationError holds one message per violated field rule, in rule declaration order.
type ValidationError struct {
	Messages []string
}

// Error joins the messages with a comma and a space, preserving their order.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
