package repository

import (
	"context"

	"inkwell/internal/domain/entity"
)

type CategoryRepository interface {
	// List returns every category ordered by parent, position and ID.
	List(ctx context.Context) ([]*entity.Category, error)
}
