// Package entity defines the core domain entities and validation logic for the application.
// It contains the blog's persistent records (articles, categories, tags, topics, links
// and static labels) together with their validation rules and domain-specific errors.
package entity

import "time"

// ArticleStatus describes the visibility of an article.
type ArticleStatus string

const (
	// StatusDraft marks an article that is still being written.
	StatusDraft ArticleStatus = "draft"
	// StatusPublished marks an article visible to everyone.
	StatusPublished ArticleStatus = "published"
	// StatusHidden marks an article reachable only by direct link from the admin.
	StatusHidden ArticleStatus = "hidden"
)

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusHidden:
		return true
	}
	return false
}

// Article represents a blog post.
// CategoryID and TopicID are nil when the article is not filed under one.
type Article struct {
	ID         int64
	CategoryID *int64
	TopicID    *int64
	Title      string
	Slug       string
	Summary    string
	Body       string
	Hits       int64
	Status     ArticleStatus
	CreatedAt  time.Time
}

// IsPublic reports whether the article may be listed on public pages.
func (a *Article) IsPublic() bool {
	return a != nil && a.Status == StatusPublished
}
