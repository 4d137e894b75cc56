package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) repository.CategoryRepository {
	return &CategoryRepo{db: db}
}

func (repo *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	const query = `
SELECT id, parent_id, name, slug, position
FROM categories
ORDER BY parent_id NULLS FIRST, position, id`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]*entity.Category, 0, 32)
	for rows.Next() {
		var (
			c        entity.Category
			parentID sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &parentID, &c.Name, &c.Slug, &c.Position); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return categories, nil
}
