// Package page serves site pages: each request path names a template that
// is rendered with the template helper context.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"

	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	"inkwell/internal/observability/metrics"
	"inkwell/internal/render"
)

// DefaultIndex is rendered for "/" and for paths ending in "/".
const DefaultIndex = "index"

// ErrInvalidName is returned for page names that may not be served directly.
var ErrInvalidName = errors.New("invalid page name")

type Renderer interface {
	RenderTemplate(w io.Writer, name string, data pongo2.Context) error
}

type ContextBuilder interface {
	Context(ctx context.Context) pongo2.Context
}

// Handler renders GET /{name...}. Templates whose file or directory name
// starts with "_" or "." are layouts and partials and answer 404.
type Handler struct {
	Renderer Renderer
	Contexts ContextBuilder
	// Index is the template for directory paths; DefaultIndex when empty.
	Index string
	// NotFound, when set, is rendered with status 404 for missing pages.
	NotFound string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, err := h.templateName(r.URL.Path)
	if err != nil {
		h.notFound(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = h.Renderer.RenderTemplate(&buf, name, h.data(r))
	metrics.RecordPageRender(name, err)
	switch {
	case errors.Is(err, render.ErrTemplateNotFound):
		h.notFound(w, r, err)
		return
	case err != nil:
		logging.FromContext(r.Context()).Error("page render failed",
			slog.String("template", name),
			slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}
}

func (h *Handler) templateName(urlPath string) (string, error) {
	index := h.Index
	if index == "" {
		index = DefaultIndex
	}

	name := strings.TrimPrefix(urlPath, "/")
	if name == "" || strings.HasSuffix(name, "/") {
		name += index
	}
	if clean := path.Clean(name); clean != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, urlPath)
	}
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, "_") || strings.HasPrefix(segment, ".") {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, urlPath)
		}
	}
	return name, nil
}

// data is the helper context plus the request's path and query. Query
// values are single strings; repeated keys keep the first value.
func (h *Handler) data(r *http.Request) pongo2.Context {
	c := h.Contexts.Context(r.Context())
	c["query"] = firstValues(r.URL.Query())
	c["path"] = r.URL.Path
	return c
}

func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, err error) {
	if h.NotFound != "" {
		var buf bytes.Buffer
		if renderErr := h.Renderer.RenderTemplate(&buf, h.NotFound, h.data(r)); renderErr == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = buf.WriteTo(w)
			return
		}
	}
	respond.SafeError(w, http.StatusNotFound, err)
}
