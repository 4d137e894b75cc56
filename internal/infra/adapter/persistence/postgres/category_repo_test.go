package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"inkwell/internal/domain/entity"
	pg "inkwell/internal/infra/adapter/persistence/postgres"
)

func TestCategoryRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY parent_id NULLS FIRST, position, id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "name", "slug", "position"}).
			AddRow(int64(1), nil, "Programming", "programming", 0).
			AddRow(int64(2), int64(1), "Go", "go", 1))

	got, err := pg.NewCategoryRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	want := []*entity.Category{
		{ID: 1, Name: "Programming", Slug: "programming"},
		{ID: 2, ParentID: i64(1), Name: "Go", Slug: "go", Position: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
