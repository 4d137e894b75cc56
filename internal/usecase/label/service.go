// Package label looks up the static HTML snippets rendered by the label helper.
package label

import (
	"context"
	"fmt"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

type Service struct {
	Repo repository.LabelRepository
}

// Get returns the label whose slug is exactly slug, or nil if there is none.
func (s *Service) Get(ctx context.Context, slug string) (*entity.Label, error) {
	if slug == "" {
		return nil, nil
	}
	l, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get label %q: %w", slug, err)
	}
	return l, nil
}
