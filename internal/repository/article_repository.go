package repository

import (
	"context"
	"time"

	"inkwell/internal/domain/entity"
)

// ArticleRepository is the read side of the articles table used by the template helpers.
type ArticleRepository interface {
	// Get returns the article with the given ID, or (nil, nil) if it does not exist.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// EarliestCreatedAt returns the creation time of the oldest article.
	// The boolean is false when there are no articles.
	EarliestCreatedAt(ctx context.Context) (time.Time, bool, error)
	// RelatedIDs returns the IDs of every article sharing at least one tag with
	// the given article, the article itself included. IDs may repeat.
	RelatedIDs(ctx context.Context, articleID int64) ([]int64, error)
	// ListPublicByIDs returns the published articles among ids.
	ListPublicByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error)
	// ListPublicSince returns up to limit published articles created at or after
	// since, ordered by hits descending.
	ListPublicSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error)
}
