package search_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/search"
)

func TestQuery_Record(t *testing.T) {
	q, err := search.Build(articleModel, search.Params{})
	require.NoError(t, err)

	targets := q.ScanTargets()
	require.Len(t, targets, len(articleModel.Fields))

	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	*targets[0].(*sql.NullInt64) = sql.NullInt64{Int64: 9, Valid: true}
	*targets[1].(*sql.NullString) = sql.NullString{String: "Hello", Valid: true}
	*targets[2].(*sql.NullInt64) = sql.NullInt64{Int64: 12, Valid: true}
	*targets[3].(*sql.NullString) = sql.NullString{String: "published", Valid: true}
	*targets[4].(*sql.NullTime) = sql.NullTime{Time: created, Valid: true}

	rec, err := q.Record(targets)
	require.NoError(t, err)
	assert.Equal(t, search.Record{
		"id":          int64(9),
		"title":       "Hello",
		"hits":        int64(12),
		"status":      "published",
		"created":     created,
		"category_id": nil,
	}, rec)

	_, err = q.Record(targets[:2])
	assert.Error(t, err)
}

func TestSingle(t *testing.T) {
	_, err := search.Single(nil)
	assert.ErrorIs(t, err, search.ErrNoResult)

	rec, err := search.Single([]search.Record{{"id": int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec["id"])

	_, err = search.Single([]search.Record{{}, {}})
	assert.ErrorIs(t, err, search.ErrMultipleResults)
}
