package entity

// Tag is a free-form keyword attached to articles through the article_tags table.
type Tag struct {
	ID   int64
	Name string
	Slug string
}
