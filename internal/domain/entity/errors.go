package entity

import (
	"errors"
	"fmt"
)

// ErrValidationFailed indicates that a record failed its validation rules.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError reports which field of a record failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidationFailed) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
