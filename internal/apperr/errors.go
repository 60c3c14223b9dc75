// Package apperr defines the domain error taxonomy shared by the store,
// service and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError marks a rejected input (missing field, MOQ violation,
// missing contact method). Surfaced as a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks an absent or inactive entity. Surfaced as a 404.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Ref)
}

// NotFound builds a NotFoundError.
func NotFound(entity string, ref interface{}) error {
	return &NotFoundError{Entity: entity, Ref: fmt.Sprint(ref)}
}

// InsufficientStockError is returned when a deduction would drive a
// listing's available quantity negative. The request stays in its prior
// state; the caller sees both sides of the failed comparison.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available=%d, requested=%d", e.Available, e.Requested)
}

// InvalidTransitionError marks an unrecognized or illegal status change,
// rejected before any side effect runs.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("invalid status: %q", e.To)
	}
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// Convenience matchers for the HTTP boundary.

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func AsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var i *InsufficientStockError
	ok := errors.As(err, &i)
	return i, ok
}

func IsInvalidTransition(err error) bool {
	var t *InvalidTransitionError
	return errors.As(err, &t)
}
