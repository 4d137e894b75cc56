// Package article provides the article read use cases behind the template
// helpers: tag-related articles and the most visited recent articles.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrInvalidLimit indicates a negative result limit.
	ErrInvalidLimit = errors.New("limit cannot be negative")

	// ErrInvalidDays indicates a negative look-back window.
	ErrInvalidDays = errors.New("days cannot be negative")
)
