package render

import (
	"html"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// DefaultExcerptLength is the rune count kept by the excerpt filter without a parameter.
	DefaultExcerptLength = 200
	// MonthLayout is the default layout of the month filter.
	MonthLayout = "2006-01"
)

var (
	filtersOnce   sync.Once
	excerptPolicy = bluemonday.StrictPolicy()
)

// pongo2 filters are process-wide.
func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("excerpt") {
			_ = pongo2.RegisterFilter("excerpt", filterExcerpt)
		}
		if !pongo2.FilterExists("month") {
			_ = pongo2.RegisterFilter("month", filterMonth)
		}
	})
}

// Excerpt strips markup from s and shortens it to at most n runes, adding an
// ellipsis when text was cut.
func Excerpt(s string, n int) string {
	text := html.UnescapeString(excerptPolicy.Sanitize(s))
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func filterExcerpt(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	n := DefaultExcerptLength
	if param != nil && !param.IsNil() && param.IsInteger() {
		n = param.Integer()
	}
	return pongo2.AsValue(Excerpt(in.String(), n)), nil
}

func filterMonth(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	layout := MonthLayout
	if param != nil && param.IsString() && param.String() != "" {
		layout = param.String()
	}
	switch t := in.Interface().(type) {
	case time.Time:
		return pongo2.AsValue(t.Format(layout)), nil
	case *time.Time:
		if t == nil {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsValue(t.Format(layout)), nil
	default:
		return pongo2.AsValue(in.String()), nil
	}
}
