// Package postgres provides PostgreSQL implementations of repository interfaces
// and the searchable model descriptors that mirror its schema.
package postgres

import "inkwell/internal/search"

// Searchable models exposed to model_query. Field names follow the public
// names templates use; Column is the backing column.
var (
	TagModel = &search.Model{
		Name: "Tag", Table: "tags", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "name", Column: "name", Kind: search.KindString},
			{Name: "slug", Column: "slug", Kind: search.KindString},
		},
	}

	CategoryModel = &search.Model{
		Name: "Category", Table: "categories", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "parent_id", Column: "parent_id", Kind: search.KindInt, Nullable: true},
			{Name: "name", Column: "name", Kind: search.KindString},
			{Name: "slug", Column: "slug", Kind: search.KindString},
			{Name: "position", Column: "position", Kind: search.KindInt},
		},
	}

	TopicModel = &search.Model{
		Name: "Topic", Table: "topics", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "name", Column: "name", Kind: search.KindString},
			{Name: "slug", Column: "slug", Kind: search.KindString},
			{Name: "summary", Column: "summary", Kind: search.KindString},
		},
	}

	ArticleModel = &search.Model{
		Name: "Article", Table: "articles", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "category_id", Column: "category_id", Kind: search.KindInt, Nullable: true},
			{Name: "topic_id", Column: "topic_id", Kind: search.KindInt, Nullable: true},
			{Name: "title", Column: "title", Kind: search.KindString},
			{Name: "slug", Column: "slug", Kind: search.KindString},
			{Name: "summary", Column: "summary", Kind: search.KindString},
			{Name: "hits", Column: "hits", Kind: search.KindInt},
			{Name: "status", Column: "status", Kind: search.KindString},
			{Name: "created", Column: "created_at", Kind: search.KindTime},
		},
		Relations: []*search.Relation{
			{Name: "tags", Target: TagModel, JoinTable: "article_tags", JoinLocal: "article_id", JoinTarget: "tag_id"},
			{Name: "category", Target: CategoryModel, LocalColumn: "category_id"},
			{Name: "topic", Target: TopicModel, LocalColumn: "topic_id"},
		},
	}

	FriendLinkModel = &search.Model{
		Name: "FriendLink", Table: "friend_links", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "name", Column: "name", Kind: search.KindString},
			{Name: "url", Column: "url", Kind: search.KindString},
			{Name: "note", Column: "note", Kind: search.KindString},
			{Name: "position", Column: "position", Kind: search.KindInt},
			{Name: "active", Column: "active", Kind: search.KindBool},
		},
	}

	LinkModel = &search.Model{
		Name: "Link", Table: "links", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "name", Column: "name", Kind: search.KindString},
			{Name: "url", Column: "url", Kind: search.KindString},
			{Name: "position", Column: "position", Kind: search.KindInt},
		},
	}

	LabelModel = &search.Model{
		Name: "Label", Table: "labels", PrimaryKey: "id",
		Fields: []search.Field{
			{Name: "id", Column: "id", Kind: search.KindInt},
			{Name: "slug", Column: "slug", Kind: search.KindString},
			{Name: "title", Column: "title", Kind: search.KindString},
			{Name: "html", Column: "html", Kind: search.KindString},
		},
	}
)

// Models returns a registry of every searchable model.
func Models() *search.Registry {
	return search.NewRegistry(
		ArticleModel, CategoryModel, TagModel, TopicModel,
		FriendLinkModel, LinkModel, LabelModel,
	)
}
