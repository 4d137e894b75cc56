package repository

import (
	"context"

	"inkwell/internal/search"
)

// ModelRepository executes generic searches built by the search package.
type ModelRepository interface {
	// Search runs q and returns one record per row, keyed by field name.
	Search(ctx context.Context, q search.Query) ([]search.Record, error)
}
