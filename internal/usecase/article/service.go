package article

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

const (
	// DefaultRelatedLimit is the number of related articles returned when the caller gives none.
	DefaultRelatedLimit = 10
	// DefaultTopDays is the default look-back window of Top.
	DefaultTopDays = 365
	// DefaultTopLimit is the number of top articles returned when the caller gives none.
	DefaultTopLimit = 10
)

// Service provides the article read use cases.
type Service struct {
	Repo repository.ArticleRepository
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
	// Sample picks n distinct ids at random; lo.Samples when nil.
	Sample func(ids []int64, n int) []int64
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) sample(ids []int64, n int) []int64 {
	if s.Sample != nil {
		return s.Sample(ids, n)
	}
	return lo.Samples(ids, n)
}

// Related returns up to limit public articles sharing at least one tag with
// the article id, picked at random among the candidates.
// It returns nil when the article does not exist or has no related articles.
func (s *Service) Related(ctx context.Context, id int64, limit int) ([]*entity.Article, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if id <= 0 {
		return nil, nil
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, nil
	}

	ids, err := s.Repo.RelatedIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("related ids: %w", err)
	}
	candidates := lo.Without(lo.Uniq(ids), id)
	if len(candidates) == 0 {
		return nil, nil
	}

	picked := s.sample(candidates, min(limit, len(candidates)))
	if len(picked) == 0 {
		return []*entity.Article{}, nil
	}

	articles, err := s.Repo.ListPublicByIDs(ctx, picked)
	if err != nil {
		return nil, fmt.Errorf("list related articles: %w", err)
	}
	return articles, nil
}

// Top returns up to limit public articles created since local midnight
// days days ago, most visited first.
func (s *Service) Top(ctx context.Context, days, limit int) ([]*entity.Article, error) {
	if days < 0 {
		return nil, ErrInvalidDays
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		return []*entity.Article{}, nil
	}

	articles, err := s.Repo.ListPublicSince(ctx, s.Since(days), limit)
	if err != nil {
		return nil, fmt.Errorf("list top articles: %w", err)
	}
	return articles, nil
}

// Since returns the start of the Top window: local midnight today minus days.
func (s *Service) Since(days int) time.Time {
	now := s.now()
	y, m, d := now.Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, now.Location())
}
