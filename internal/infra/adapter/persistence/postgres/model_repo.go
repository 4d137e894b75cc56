package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/repository"
	"inkwell/internal/search"
)

// ModelRepo executes compiled restless searches against PostgreSQL.
type ModelRepo struct{ db *sql.DB }

func NewModelRepo(db *sql.DB) repository.ModelRepository {
	return &ModelRepo{db: db}
}

func (repo *ModelRepo) Search(ctx context.Context, q search.Query) ([]search.Record, error) {
	if q.Model == nil || q.SQL == "" {
		return nil, fmt.Errorf("Search: %w", search.ErrUnknownModel)
	}
	rows, err := repo.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("Search %s: %w", q.Model.Name, err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]search.Record, 0, 16)
	for rows.Next() {
		targets := q.ScanTargets()
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("Search %s: Scan: %w", q.Model.Name, err)
		}
		rec, err := q.Record(targets)
		if err != nil {
			return nil, fmt.Errorf("Search %s: %w", q.Model.Name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Search %s: rows.Err: %w", q.Model.Name, err)
	}
	return records, nil
}
