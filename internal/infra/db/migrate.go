package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`
CREATE TABLE IF NOT EXISTS categories (
    id        SERIAL PRIMARY KEY,
    parent_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    name      TEXT NOT NULL,
    slug      TEXT NOT NULL UNIQUE,
    position  INTEGER NOT NULL DEFAULT 0
)`,
	`
CREATE TABLE IF NOT EXISTS topics (
    id      SERIAL PRIMARY KEY,
    name    TEXT NOT NULL,
    slug    TEXT NOT NULL UNIQUE,
    summary TEXT NOT NULL DEFAULT ''
)`,
	`
CREATE TABLE IF NOT EXISTS articles (
    id          SERIAL PRIMARY KEY,
    category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    topic_id    INTEGER REFERENCES topics(id) ON DELETE SET NULL,
    title       TEXT NOT NULL,
    slug        TEXT NOT NULL UNIQUE,
    summary     TEXT NOT NULL DEFAULT '',
    body        TEXT NOT NULL DEFAULT '',
    hits        BIGINT NOT NULL DEFAULT 0,
    status      VARCHAR(16) NOT NULL DEFAULT 'draft'
                CHECK (status IN ('draft', 'published', 'hidden')),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`
CREATE TABLE IF NOT EXISTS tags (
    id   SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE
)`,
	`
CREATE TABLE IF NOT EXISTS article_tags (
    article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    tag_id     INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (article_id, tag_id)
)`,
	`
CREATE TABLE IF NOT EXISTS friend_links (
    id       SERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    url      TEXT NOT NULL,
    note     TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0,
    active   BOOLEAN NOT NULL DEFAULT TRUE
)`,
	`
CREATE TABLE IF NOT EXISTS links (
    id       SERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    url      TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
)`,
	`
CREATE TABLE IF NOT EXISTS labels (
    id    SERIAL PRIMARY KEY,
    slug  TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    html  TEXT NOT NULL DEFAULT ''
)`,
}

var indexes = []string{
	// archives() and the default listing order
	`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
	// get_top_articles
	`CREATE INDEX IF NOT EXISTS idx_articles_status_hits ON articles(status, hits DESC)`,
	// get_related_articles walks tags in both directions
	`CREATE INDEX IF NOT EXISTS idx_article_tags_tag_id ON article_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id)`,
}

// MigrateUp creates every table and index the site reads. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}
	return nil
}

// MigrateDown drops every table created by MigrateUp, dependents first.
// Use with caution: this will delete all data.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	tables := []string{
		"article_tags", "articles", "tags", "topics",
		"categories", "friend_links", "links", "labels",
	}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS `+table+` CASCADE`); err != nil {
			return fmt.Errorf("MigrateDown %s: %w", table, err)
		}
	}
	return nil
}
