package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/entity"
)

// Fixtures is the YAML document loaded by cmd/seed.
// Records carry explicit IDs so that references between them are stable.
type Fixtures struct {
	Categories  []CategoryFixture   `yaml:"categories"`
	Topics      []TopicFixture      `yaml:"topics"`
	Tags        []TagFixture        `yaml:"tags"`
	Articles    []ArticleFixture    `yaml:"articles"`
	FriendLinks []FriendLinkFixture `yaml:"friend_links"`
	Links       []LinkFixture       `yaml:"links"`
	Labels      []LabelFixture      `yaml:"labels"`
}

type CategoryFixture struct {
	ID       int64  `yaml:"id"`
	ParentID *int64 `yaml:"parent_id"`
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug"`
	Position int    `yaml:"position"`
}

type TopicFixture struct {
	ID      int64  `yaml:"id"`
	Name    string `yaml:"name"`
	Slug    string `yaml:"slug"`
	Summary string `yaml:"summary"`
}

type TagFixture struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type ArticleFixture struct {
	ID         int64     `yaml:"id"`
	CategoryID *int64    `yaml:"category_id"`
	TopicID    *int64    `yaml:"topic_id"`
	Title      string    `yaml:"title"`
	Slug       string    `yaml:"slug"`
	Summary    string    `yaml:"summary"`
	Body       string    `yaml:"body"`
	Hits       int64     `yaml:"hits"`
	Status     string    `yaml:"status"`
	Created    time.Time `yaml:"created"`
	// Tags lists tag slugs.
	Tags []string `yaml:"tags"`
}

type FriendLinkFixture struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Note     string `yaml:"note"`
	Position int    `yaml:"position"`
	Active   *bool  `yaml:"active"`
}

type LinkFixture struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Position int    `yaml:"position"`
}

type LabelFixture struct {
	ID    int64  `yaml:"id"`
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
	HTML  string `yaml:"html"`
}

// LoadFixtures decodes and validates a fixtures document.
// Unknown keys are rejected.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("LoadFixtures: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, fmt.Errorf("LoadFixtures: %w", err)
	}
	return &fx, nil
}

// Validate checks every record and the references between them.
// A category's parent must appear before it.
func (fx *Fixtures) Validate() error {
	categories := make(map[int64]bool, len(fx.Categories))
	for i, c := range fx.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("categories[%d]: id must be positive", i)
		}
		if err := entity.ValidateSlug(c.Slug); err != nil {
			return fmt.Errorf("categories[%d]: %w", i, err)
		}
		if c.ParentID != nil && !categories[*c.ParentID] {
			return fmt.Errorf("categories[%d]: parent %d must be declared first", i, *c.ParentID)
		}
		categories[c.ID] = true
	}

	topics := make(map[int64]bool, len(fx.Topics))
	for i, t := range fx.Topics {
		if err := entity.ValidateSlug(t.Slug); err != nil {
			return fmt.Errorf("topics[%d]: %w", i, err)
		}
		topics[t.ID] = true
	}

	tags := make(map[string]bool, len(fx.Tags))
	for i, t := range fx.Tags {
		if err := entity.ValidateSlug(t.Slug); err != nil {
			return fmt.Errorf("tags[%d]: %w", i, err)
		}
		tags[t.Slug] = true
	}

	for i, a := range fx.Articles {
		article := a.entity()
		if err := article.Validate(); err != nil {
			return fmt.Errorf("articles[%d]: %w", i, err)
		}
		if a.CategoryID != nil && !categories[*a.CategoryID] {
			return fmt.Errorf("articles[%d]: unknown category %d", i, *a.CategoryID)
		}
		if a.TopicID != nil && !topics[*a.TopicID] {
			return fmt.Errorf("articles[%d]: unknown topic %d", i, *a.TopicID)
		}
		for _, slug := range a.Tags {
			if !tags[slug] {
				return fmt.Errorf("articles[%d]: unknown tag %q", i, slug)
			}
		}
	}

	for i, l := range fx.FriendLinks {
		if err := entity.ValidateURL(l.URL); err != nil {
			return fmt.Errorf("friend_links[%d]: %w", i, err)
		}
	}
	for i, l := range fx.Links {
		if err := entity.ValidateURL(l.URL); err != nil {
			return fmt.Errorf("links[%d]: %w", i, err)
		}
	}
	for i, l := range fx.Labels {
		label := entity.Label{Slug: l.Slug, Title: l.Title, HTML: l.HTML}
		if err := label.Validate(); err != nil {
			return fmt.Errorf("labels[%d]: %w", i, err)
		}
	}
	return nil
}

func (a ArticleFixture) entity() entity.Article {
	status := entity.ArticleStatus(a.Status)
	if status == "" {
		status = entity.StatusPublished
	}
	return entity.Article{
		ID: a.ID, CategoryID: a.CategoryID, TopicID: a.TopicID,
		Title: a.Title, Slug: a.Slug, Summary: a.Summary, Body: a.Body,
		Hits: a.Hits, Status: status, CreatedAt: a.Created,
	}
}

// serialTables are the tables whose id sequence is advanced after seeding.
var serialTables = []string{
	"categories", "topics", "tags", "articles", "friend_links", "links", "labels",
}

// Seed inserts fx in a single transaction. Existing rows (same id, or same
// article/tag pair) are left untouched, so seeding twice is harmless.
func Seed(ctx context.Context, db *sql.DB, fx *Fixtures) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Seed: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}

	for _, c := range fx.Categories {
		if err = exec(`
INSERT INTO categories (id, parent_id, name, slug, position)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`, c.ID, c.ParentID, c.Name, c.Slug, c.Position); err != nil {
			return fmt.Errorf("Seed: category %s: %w", c.Slug, err)
		}
	}
	for _, t := range fx.Topics {
		if err = exec(`
INSERT INTO topics (id, name, slug, summary)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`, t.ID, t.Name, t.Slug, t.Summary); err != nil {
			return fmt.Errorf("Seed: topic %s: %w", t.Slug, err)
		}
	}
	for _, t := range fx.Tags {
		if err = exec(`
INSERT INTO tags (id, name, slug)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING`, t.ID, t.Name, t.Slug); err != nil {
			return fmt.Errorf("Seed: tag %s: %w", t.Slug, err)
		}
	}
	for _, f := range fx.Articles {
		a := f.entity()
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
		if err = exec(`
INSERT INTO articles (id, category_id, topic_id, title, slug, summary, body, hits, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING`,
			a.ID, a.CategoryID, a.TopicID, a.Title, a.Slug, a.Summary, a.Body,
			a.Hits, string(a.Status), a.CreatedAt); err != nil {
			return fmt.Errorf("Seed: article %s: %w", a.Slug, err)
		}
		for _, slug := range f.Tags {
			if err = exec(`
INSERT INTO article_tags (article_id, tag_id)
SELECT $1, id FROM tags WHERE slug = $2
ON CONFLICT DO NOTHING`, a.ID, slug); err != nil {
				return fmt.Errorf("Seed: article %s tag %s: %w", a.Slug, slug, err)
			}
		}
	}
	for _, l := range fx.FriendLinks {
		active := l.Active == nil || *l.Active
		if err = exec(`
INSERT INTO friend_links (id, name, url, note, position, active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`, l.ID, l.Name, l.URL, l.Note, l.Position, active); err != nil {
			return fmt.Errorf("Seed: friend link %s: %w", l.Name, err)
		}
	}
	for _, l := range fx.Links {
		if err = exec(`
INSERT INTO links (id, name, url, position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`, l.ID, l.Name, l.URL, l.Position); err != nil {
			return fmt.Errorf("Seed: link %s: %w", l.Name, err)
		}
	}
	for _, l := range fx.Labels {
		if err = exec(`
INSERT INTO labels (id, slug, title, html)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`, l.ID, l.Slug, l.Title, l.HTML); err != nil {
			return fmt.Errorf("Seed: label %s: %w", l.Slug, err)
		}
	}

	for _, table := range serialTables {
		if err = exec(`SELECT setval(pg_get_serial_sequence('` + table + `', 'id'), COALESCE((SELECT MAX(id) FROM ` + table + `), 0) + 1, false)`); err != nil {
			return fmt.Errorf("Seed: sequence %s: %w", table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("Seed: commit: %w", err)
	}

	slog.Info("fixtures seeded",
		slog.Int("categories", len(fx.Categories)),
		slog.Int("articles", len(fx.Articles)),
		slog.Int("tags", len(fx.Tags)),
		slog.Int("labels", len(fx.Labels)))
	return nil
}
