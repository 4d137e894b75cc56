// Package category exposes the category hierarchy to templates.
package category

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

// ErrInvalidCategoryID indicates that the provided category ID is not positive.
var ErrInvalidCategoryID = errors.New("invalid category ID")

type Service struct {
	Repo repository.CategoryRepository
}

// Tree returns the category forest. Siblings are ordered by position, then ID.
func (s *Service) Tree(ctx context.Context) ([]*entity.CategoryNode, error) {
	categories, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return entity.BuildCategoryTree(categories), nil
}

// DescendantIDs returns id followed by the IDs of all its descendants,
// depth first. It returns an empty slice when the category does not exist.
func (s *Service) DescendantIDs(ctx context.Context, id int64) ([]int64, error) {
	if id <= 0 {
		return nil, ErrInvalidCategoryID
	}
	roots, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	node := entity.FindCategoryNode(roots, id)
	if node == nil {
		return []int64{}, nil
	}
	return node.IDs(), nil
}
