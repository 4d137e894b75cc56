package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

const articleColumns = `id, category_id, topic_id, title, slug, summary, body, hits, status, created_at`

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle scans one row selected with articleColumns.
func scanArticle(row rowScanner) (*entity.Article, error) {
	var (
		article    entity.Article
		categoryID sql.NullInt64
		topicID    sql.NullInt64
		status     string
	)
	if err := row.Scan(&article.ID, &categoryID, &topicID, &article.Title, &article.Slug,
		&article.Summary, &article.Body, &article.Hits, &status, &article.CreatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		article.CategoryID = &categoryID.Int64
	}
	if topicID.Valid {
		article.TopicID = &topicID.Int64
	}
	article.Status = entity.ArticleStatus(status)
	return &article, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE id = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) EarliestCreatedAt(ctx context.Context) (time.Time, bool, error) {
	const query = `
SELECT created_at
FROM articles
ORDER BY created_at ASC
LIMIT 1`
	var created time.Time
	err := repo.db.QueryRowContext(ctx, query).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("EarliestCreatedAt: %w", err)
	}
	return created, true, nil
}

func (repo *ArticleRepo) RelatedIDs(ctx context.Context, articleID int64) ([]int64, error) {
	const query = `
SELECT rel.article_id
FROM article_tags rel
WHERE rel.tag_id IN (
    SELECT tag_id FROM article_tags WHERE article_id = $1
)`
	rows, err := repo.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("RelatedIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0, 32)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("RelatedIDs: Scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RelatedIDs: rows.Err: %w", err)
	}
	return ids, nil
}

func (repo *ArticleRepo) ListPublicByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error) {
	if len(ids) == 0 {
		return []*entity.Article{}, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, string(entity.StatusPublished))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
	}

	query := `
SELECT ` + articleColumns + `
FROM articles
WHERE status = $1
  AND id IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY created_at DESC`

	return repo.list(ctx, "ListPublicByIDs", query, args...)
}

func (repo *ArticleRepo) ListPublicSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE status = $1
  AND created_at >= $2
ORDER BY hits DESC, created_at DESC
LIMIT $3`
	return repo.list(ctx, "ListPublicSince", query, string(entity.StatusPublished), since, limit)
}

func (repo *ArticleRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Article, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 16)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return articles, nil
}
