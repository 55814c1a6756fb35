package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned whenever a formula would divide by zero or receives
// a value outside its domain.
var ErrInvalidInput = errors.New("invalid input")

// InputError names the offending field. It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
