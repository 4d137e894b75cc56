// Package search implements the restless query grammar used by the model_query
// template helper: a JSON document of filters, ordering and paging that is
// validated against a model whitelist and compiled into parameterized SQL.
package search

import (
	"errors"
	"fmt"
)

// Sentinel errors for search operations.
var (
	// ErrInvalidParams indicates malformed search parameters: unknown fields,
	// unknown operators, or values of the wrong shape.
	ErrInvalidParams = errors.New("invalid search parameters")

	// ErrUnknownModel indicates that the requested model is not searchable.
	ErrUnknownModel = errors.New("unknown model")

	// ErrNoResult is returned by single-result searches that match nothing.
	ErrNoResult = errors.New("no result found")

	// ErrMultipleResults is returned by single-result searches that match more than one row.
	ErrMultipleResults = errors.New("multiple results found")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}
