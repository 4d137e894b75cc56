package entity

import (
	"fmt"
	"net/url"
	"regexp"
)

// maxURLLength defines the maximum allowed length for stored URLs.
const maxURLLength = 2048

// maxSlugLength bounds slugs so they fit comfortably in a URL path segment.
const maxSlugLength = 128

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// ValidateURL checks that a link target is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	return nil
}

// ValidateSlug checks that slug is a lowercase, URL-safe identifier.
func ValidateSlug(slug string) error {
	if slug == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	if len(slug) > maxSlugLength {
		return &ValidationError{
			Field:   "slug",
			Message: fmt.Sprintf("slug must not exceed %d characters", maxSlugLength),
		}
	}
	if !slugPattern.MatchString(slug) {
		return &ValidationError{
			Field:   "slug",
			Message: "slug must be lowercase letters, digits, '-' or '_'",
		}
	}
	return nil
}

// Validate checks the fields required before an article is stored.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := ValidateSlug(a.Slug); err != nil {
		return err
	}
	if a.Hits < 0 {
		return &ValidationError{Field: "hits", Message: "hits cannot be negative"}
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", a.Status)}
	}
	return nil
}

// Validate checks the fields required before a label is stored.
func (l *Label) Validate() error {
	return ValidateSlug(l.Slug)
}
