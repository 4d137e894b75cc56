package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

type LabelRepo struct{ db *sql.DB }

func NewLabelRepo(db *sql.DB) repository.LabelRepository {
	return &LabelRepo{db: db}
}

func (repo *LabelRepo) GetBySlug(ctx context.Context, slug string) (*entity.Label, error) {
	const query = `
SELECT id, slug, title, html
FROM labels
WHERE slug = $1
LIMIT 1`
	var label entity.Label
	err := repo.db.QueryRowContext(ctx, query, slug).
		Scan(&label.ID, &label.Slug, &label.Title, &label.HTML)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return &label, nil
}
