// Package pathutil reduces request paths to low-cardinality metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched labels requests that did not resolve to a page.
const Unmatched = "/:unmatched"

// PathPattern maps paths matching Pattern to Template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/static/.+$`), Template: "/static/*"},
	{Pattern: regexp.MustCompile(`^/archive/\d{4}/\d{1,2}$`), Template: "/archive/:year/:month"},
	{Pattern: regexp.MustCompile(`^/archive/\d{4}$`), Template: "/archive/:year"},
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// NormalizePath strips the query and trailing slash, applies the known
// patterns and replaces any remaining numeric segment with ":id".
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// Applied twice: adjacent numeric segments share a slash.
	path = numericSegment.ReplaceAllString(path, "/:id$1")
	return numericSegment.ReplaceAllString(path, "/:id$1")
}
