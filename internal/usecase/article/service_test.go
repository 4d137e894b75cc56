package article_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain/entity"
	artUC "inkwell/internal/usecase/article"
)

/* ───────── stub ───────── */

type stubRepo struct {
	data    map[int64]*entity.Article
	related map[int64][]int64
	err     error

	gotIDs   []int64
	gotSince time.Time
	gotLimit int
	calls    int
}

func newStub(articles ...*entity.Article) *stubRepo {
	s := &stubRepo{data: map[int64]*entity.Article{}, related: map[int64][]int64{}}
	for _, a := range articles {
		s.data[a.ID] = a
	}
	return s
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Article, error) {
	s.calls++
	return s.data[id], s.err
}

func (s *stubRepo) EarliestCreatedAt(_ context.Context) (time.Time, bool, error) {
	return time.Time{}, false, s.err
}

func (s *stubRepo) RelatedIDs(_ context.Context, id int64) ([]int64, error) {
	s.calls++
	return s.related[id], s.err
}

func (s *stubRepo) ListPublicByIDs(_ context.Context, ids []int64) ([]*entity.Article, error) {
	s.calls++
	s.gotIDs = ids
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Article
	for _, id := range ids {
		if a, ok := s.data[id]; ok && a.IsPublic() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubRepo) ListPublicSince(_ context.Context, since time.Time, limit int) ([]*entity.Article, error) {
	s.calls++
	s.gotSince, s.gotLimit = since, limit
	return []*entity.Article{}, s.err
}

func pub(id int64) *entity.Article {
	return &entity.Article{ID: id, Title: "t", Slug: "t", Status: entity.StatusPublished}
}

/* ───────── 1. Related ───────── */

func TestService_Related(t *testing.T) {
	repo := newStub(pub(1), pub(2), pub(3), pub(4))
	repo.related[1] = []int64{1, 2, 2, 3, 1, 4}
	svc := artUC.Service{Repo: repo}

	got, err := svc.Related(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, repo.gotIDs, 2)
	for _, a := range got {
		assert.NotEqual(t, int64(1), a.ID, "source article must not be related to itself")
		assert.Contains(t, []int64{2, 3, 4}, a.ID)
	}
	assert.NotEqual(t, repo.gotIDs[0], repo.gotIDs[1], "sample must not repeat ids")
}

func TestService_Related_LimitAboveCandidates(t *testing.T) {
	repo := newStub(pub(1), pub(2), pub(3))
	repo.related[1] = []int64{1, 2, 3, 3}
	svc := artUC.Service{Repo: repo, Sample: func(ids []int64, n int) []int64 {
		return ids[:n]
	}}

	got, err := svc.Related(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, repo.gotIDs)
	assert.Len(t, got, 2)
}

func TestService_Related_FiltersNonPublic(t *testing.T) {
	hidden := pub(3)
	hidden.Status = entity.StatusHidden
	repo := newStub(pub(1), pub(2), hidden)
	repo.related[1] = []int64{1, 2, 3}
	svc := artUC.Service{Repo: repo}

	got, err := svc.Related(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestService_Related_NilResults(t *testing.T) {
	t.Run("unknown article", func(t *testing.T) {
		svc := artUC.Service{Repo: newStub()}
		got, err := svc.Related(context.Background(), 42, 10)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("only itself shares tags", func(t *testing.T) {
		repo := newStub(pub(1))
		repo.related[1] = []int64{1, 1}
		svc := artUC.Service{Repo: repo}
		got, err := svc.Related(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestService_Related_ZeroLimit(t *testing.T) {
	repo := newStub(pub(1), pub(2))
	repo.related[1] = []int64{1, 2}
	svc := artUC.Service{Repo: repo}

	got, err := svc.Related(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Nil(t, repo.gotIDs, "no query expected for an empty sample")
}

func TestService_Related_Invalid(t *testing.T) {
	repo := newStub()
	svc := artUC.Service{Repo: repo}

	for _, id := range []int64{0, -3} {
		got, err := svc.Related(context.Background(), id, 10)
		require.NoError(t, err)
		assert.Nil(t, got, "id=%d", id)
	}
	assert.Zero(t, repo.calls)

	_, err := svc.Related(context.Background(), 1, -1)
	assert.ErrorIs(t, err, artUC.ErrInvalidLimit)
}

func TestService_Related_RepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	svc := artUC.Service{Repo: repo}

	_, err := svc.Related(context.Background(), 1, 10)
	assert.ErrorIs(t, err, repo.err)
}

/* ───────── 2. Top ───────── */

func TestService_Top_Window(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	now := time.Date(2025, 3, 10, 15, 4, 5, 0, loc)
	repo := newStub()
	svc := artUC.Service{Repo: repo, Now: func() time.Time { return now }}

	_, err := svc.Top(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.True(t, repo.gotSince.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, loc)), "since=%v", repo.gotSince)
	assert.Equal(t, 5, repo.gotLimit)
}

func TestService_Since_CrossesYear(t *testing.T) {
	now := time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC)
	svc := artUC.Service{Now: func() time.Time { return now }}

	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), svc.Since(365))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), svc.Since(0))
}

func TestService_Top_Invalid(t *testing.T) {
	repo := newStub()
	svc := artUC.Service{Repo: repo}

	_, err := svc.Top(context.Background(), -1, 10)
	assert.ErrorIs(t, err, artUC.ErrInvalidDays)

	_, err = svc.Top(context.Background(), 30, -1)
	assert.ErrorIs(t, err, artUC.ErrInvalidLimit)

	got, err := svc.Top(context.Background(), 30, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, repo.calls)
}

func TestService_Top_RepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("timeout")
	svc := artUC.Service{Repo: repo}

	_, err := svc.Top(context.Background(), 1, 1)
	assert.ErrorIs(t, err, repo.err)
	assert.Contains(t, err.Error(), "list top articles")
}
