package search_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"inkwell/internal/search"
)

/* ──────────────────────────── fixtures ──────────────────────────── */

var tagModel = &search.Model{
	Name: "Tag", Table: "tags", PrimaryKey: "id",
	Fields: []search.Field{
		{Name: "id", Column: "id", Kind: search.KindInt},
		{Name: "slug", Column: "slug", Kind: search.KindString},
	},
}

var categoryModel = &search.Model{
	Name: "Category", Table: "categories", PrimaryKey: "id",
	Fields: []search.Field{
		{Name: "id", Column: "id", Kind: search.KindInt},
		{Name: "slug", Column: "slug", Kind: search.KindString},
	},
}

var articleModel = &search.Model{
	Name: "Article", Table: "articles", PrimaryKey: "id",
	Fields: []search.Field{
		{Name: "id", Column: "id", Kind: search.KindInt},
		{Name: "title", Column: "title", Kind: search.KindString},
		{Name: "hits", Column: "hits", Kind: search.KindInt},
		{Name: "status", Column: "status", Kind: search.KindString},
		{Name: "created", Column: "created_at", Kind: search.KindTime},
		{Name: "category_id", Column: "category_id", Kind: search.KindInt, Nullable: true},
	},
	Relations: []*search.Relation{
		{Name: "tags", Target: tagModel, JoinTable: "article_tags", JoinLocal: "article_id", JoinTarget: "tag_id"},
		{Name: "category", Target: categoryModel, LocalColumn: "category_id"},
	},
}

const selectArticles = "SELECT t0.id, t0.title, t0.hits, t0.status, t0.created_at, t0.category_id FROM articles t0"

func intp(v int) *int { return &v }

func mustParse(t *testing.T, raw string) search.Params {
	t.Helper()
	p, err := search.ParseParams(raw)
	if err != nil {
		t.Fatalf("ParseParams(%s) err=%v", raw, err)
	}
	return p
}

/* ──────────────────────────── 1. Build ──────────────────────────── */

func TestBuild_NoParams(t *testing.T) {
	q, err := search.Build(articleModel, search.Params{})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	if q.SQL != selectArticles {
		t.Errorf("SQL = %q, want %q", q.SQL, selectArticles)
	}
	if len(q.Args) != 0 {
		t.Errorf("Args = %v, want none", q.Args)
	}
}

func TestBuild_Queries(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "comparison and ordering",
			params:   `{"filters":[{"name":"hits","op":">=","val":10}],"order_by":[{"field":"hits","direction":"desc"}],"limit":5}`,
			wantSQL:  selectArticles + " WHERE t0.hits >= $1 ORDER BY t0.hits DESC LIMIT $2",
			wantArgs: []any{int64(10), 5},
		},
		{
			name:     "operator aliases",
			params:   `{"filters":[{"name":"status","op":"==","val":"published"},{"name":"id","op":"not_equal_to","val":3}]}`,
			wantSQL:  selectArticles + " WHERE t0.status = $1 AND t0.id <> $2",
			wantArgs: []any{"published", int64(3)},
		},
		{
			name:     "null comparisons",
			params:   `{"filters":[{"name":"category_id","op":"eq","val":null},{"name":"title","op":"is_not_null"}]}`,
			wantSQL:  selectArticles + " WHERE t0.category_id IS NULL AND t0.title IS NOT NULL",
			wantArgs: nil,
		},
		{
			name:     "in list",
			params:   `{"filters":[{"name":"id","op":"in","val":[1,2,3]}]}`,
			wantSQL:  selectArticles + " WHERE t0.id IN ($1, $2, $3)",
			wantArgs: []any{int64(1), int64(2), int64(3)},
		},
		{
			name:     "empty in list",
			params:   `{"filters":[{"name":"id","op":"in","val":[]},{"name":"id","op":"not_in","val":[]}]}`,
			wantSQL:  selectArticles + " WHERE FALSE AND TRUE",
			wantArgs: nil,
		},
		{
			name:     "like",
			params:   `{"filters":[{"name":"title","op":"ilike","val":"%go%"}]}`,
			wantSQL:  selectArticles + " WHERE t0.title ILIKE $1",
			wantArgs: []any{"%go%"},
		},
		{
			name:     "field comparison",
			params:   `{"filters":[{"name":"id","op":"lt","field":"hits"}]}`,
			wantSQL:  selectArticles + " WHERE t0.id < t0.hits",
			wantArgs: nil,
		},
		{
			name:     "or group",
			params:   `{"filters":[{"or":[{"name":"hits","op":"gt","val":100},{"name":"title","op":"like","val":"Go%"}]}]}`,
			wantSQL:  selectArticles + " WHERE (t0.hits > $1 OR t0.title LIKE $2)",
			wantArgs: []any{int64(100), "Go%"},
		},
		{
			name:     "timestamp value",
			params:   `{"filters":[{"name":"created","op":"ge","val":"2024-01-02"}]}`,
			wantSQL:  selectArticles + " WHERE t0.created_at >= $1",
			wantArgs: []any{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:     "to-many relation",
			params:   `{"filters":[{"name":"tags","op":"any","val":{"name":"slug","op":"eq","val":"go"}}]}`,
			wantSQL:  selectArticles + " WHERE EXISTS (SELECT 1 FROM article_tags j1 JOIN tags t1 ON t1.id = j1.tag_id WHERE j1.article_id = t0.id AND t1.slug = $1)",
			wantArgs: []any{"go"},
		},
		{
			name:     "to-many relation by slug",
			params:   `{"filters":[{"name":"tags","op":"any","val":"go"}]}`,
			wantSQL:  selectArticles + " WHERE EXISTS (SELECT 1 FROM article_tags j1 JOIN tags t1 ON t1.id = j1.tag_id WHERE j1.article_id = t0.id AND t1.slug = $1)",
			wantArgs: []any{"go"},
		},
		{
			name:     "to-one relation by slug",
			params:   `{"filters":[{"name":"category","op":"has","val":"golang"}]}`,
			wantSQL:  selectArticles + " WHERE EXISTS (SELECT 1 FROM categories t1 WHERE t1.id = t0.category_id AND t1.slug = $1)",
			wantArgs: []any{"golang"},
		},
		{
			name:     "to-one relation without condition",
			params:   `{"filters":[{"name":"category","op":"has"}]}`,
			wantSQL:  selectArticles + " WHERE EXISTS (SELECT 1 FROM categories t1 WHERE t1.id = t0.category_id)",
			wantArgs: nil,
		},
		{
			name:     "single without limit",
			params:   `{"filters":[{"name":"id","op":"eq","val":7}],"single":true}`,
			wantSQL:  selectArticles + " WHERE t0.id = $1 LIMIT $2",
			wantArgs: []any{int64(7), 2},
		},
		{
			name:     "offset",
			params:   `{"order_by":[{"field":"created"}],"limit":10,"offset":20}`,
			wantSQL:  selectArticles + " ORDER BY t0.created_at ASC LIMIT $1 OFFSET $2",
			wantArgs: []any{10, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := search.Build(articleModel, mustParse(t, tt.params))
			if err != nil {
				t.Fatalf("Build err=%v", err)
			}
			if q.SQL != tt.wantSQL {
				t.Errorf("SQL = %q\nwant  %q", q.SQL, tt.wantSQL)
			}
			if diff := cmp.Diff(tt.wantArgs, q.Args); diff != "" {
				t.Errorf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params search.Params
	}{
		{name: "unknown field", params: search.Params{Filters: []search.Filter{{Name: "password", Op: "eq", Val: "x"}}}},
		{name: "unknown operator", params: search.Params{Filters: []search.Filter{{Name: "id", Op: "~", Val: 1}}}},
		{name: "missing name", params: search.Params{Filters: []search.Filter{{Op: "eq", Val: 1}}}},
		{name: "wrong value type", params: search.Params{Filters: []search.Filter{{Name: "hits", Op: "gt", Val: "many"}}}},
		{name: "fractional integer", params: search.Params{Filters: []search.Filter{{Name: "hits", Op: "gt", Val: 1.5}}}},
		{name: "ordering needs value", params: search.Params{Filters: []search.Filter{{Name: "hits", Op: "gt"}}}},
		{name: "in needs list", params: search.Params{Filters: []search.Filter{{Name: "id", Op: "in", Val: 3}}}},
		{name: "like on int", params: search.Params{Filters: []search.Filter{{Name: "hits", Op: "like", Val: "1%"}}}},
		{name: "val and field", params: search.Params{Filters: []search.Filter{{Name: "id", Op: "eq", Val: 1, Field: "hits"}}}},
		{name: "mixed group", params: search.Params{Filters: []search.Filter{{Name: "id", Op: "eq", Or: []search.Filter{{Name: "id", Op: "eq", Val: 1}}}}}},
		{name: "has on to-many", params: search.Params{Filters: []search.Filter{{Name: "tags", Op: "has"}}}},
		{name: "any on to-one", params: search.Params{Filters: []search.Filter{{Name: "category", Op: "any"}}}},
		{name: "relation value number", params: search.Params{Filters: []search.Filter{{Name: "tags", Op: "any", Val: 3}}}},
		{name: "unknown nested field", params: search.Params{Filters: []search.Filter{{Name: "tags", Op: "any", Val: map[string]any{"name": "color", "op": "eq", "val": "red"}}}}},
		{name: "unknown order field", params: search.Params{OrderBy: []search.OrderBy{{Field: "rank"}}}},
		{name: "bad direction", params: search.Params{OrderBy: []search.OrderBy{{Field: "id", Direction: "sideways"}}}},
		{name: "negative limit", params: search.Params{Limit: intp(-1)}},
		{name: "limit too large", params: search.Params{Limit: intp(search.MaxLimit + 1)}},
		{name: "negative offset", params: search.Params{Offset: intp(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := search.Build(articleModel, tt.params)
			if !errors.Is(err, search.ErrInvalidParams) {
				t.Fatalf("err = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestBuild_NilModel(t *testing.T) {
	_, err := search.Build(nil, search.Params{})
	if !errors.Is(err, search.ErrUnknownModel) {
		t.Fatalf("err = %v, want ErrUnknownModel", err)
	}
}

func TestBuild_GoValues(t *testing.T) {
	q, err := search.Build(articleModel, search.Params{
		Filters: []search.Filter{{Name: "id", Op: "in", Val: []int64{4, 5}}},
	})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	if diff := cmp.Diff([]any{int64(4), int64(5)}, q.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}
