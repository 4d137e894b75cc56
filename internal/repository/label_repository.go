package repository

import (
	"context"

	"inkwell/internal/domain/entity"
)

type LabelRepository interface {
	// GetBySlug returns the label with the given slug, or (nil, nil) if none exists.
	GetBySlug(ctx context.Context, slug string) (*entity.Label, error)
}
