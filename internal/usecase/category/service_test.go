package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain/entity"
	"inkwell/internal/usecase/category"
)

type stubRepo struct {
	data []*entity.Category
	err  error
}

func (s *stubRepo) List(context.Context) ([]*entity.Category, error) { return s.data, s.err }

func ptr(v int64) *int64 { return &v }

func fixture() *stubRepo {
	return &stubRepo{data: []*entity.Category{
		{ID: 1, Name: "Programming", Slug: "programming", Position: 1},
		{ID: 2, Name: "Life", Slug: "life", Position: 0},
		{ID: 3, ParentID: ptr(1), Name: "Go", Slug: "go", Position: 2},
		{ID: 4, ParentID: ptr(1), Name: "SQL", Slug: "sql", Position: 1},
		{ID: 5, ParentID: ptr(3), Name: "Generics", Slug: "generics"},
		{ID: 6, ParentID: ptr(99), Name: "Orphan", Slug: "orphan", Position: 5},
	}}
}

func TestService_Tree(t *testing.T) {
	svc := category.Service{Repo: fixture()}

	roots, err := svc.Tree(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(roots))
	for _, r := range roots {
		ids = append(ids, r.Category.ID)
	}
	assert.Equal(t, []int64{2, 1, 6}, ids, "roots ordered by position, orphans promoted")

	programming := roots[1]
	require.Len(t, programming.Children, 2)
	assert.Equal(t, int64(4), programming.Children[0].Category.ID)
	assert.Equal(t, int64(3), programming.Children[1].Category.ID)
	assert.Equal(t, 2, programming.Children[1].Children[0].Depth)
}

func TestService_DescendantIDs(t *testing.T) {
	svc := category.Service{Repo: fixture()}

	got, err := svc.DescendantIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4, 3, 5}, got)

	got, err = svc.DescendantIDs(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, got)

	got, err = svc.DescendantIDs(context.Background(), 404)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_DescendantIDs_Invalid(t *testing.T) {
	svc := category.Service{Repo: fixture()}

	_, err := svc.DescendantIDs(context.Background(), 0)
	assert.ErrorIs(t, err, category.ErrInvalidCategoryID)
}

func TestService_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := category.Service{Repo: &stubRepo{err: boom}}

	_, err := svc.Tree(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = svc.DescendantIDs(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}
