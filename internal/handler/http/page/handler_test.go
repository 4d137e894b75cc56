package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/render"
)

type stubContexts struct{}

func (stubContexts) Context(context.Context) pongo2.Context {
	return pongo2.Context{
		"site":  "Inkwell",
		"boom":  func() (string, error) { return "", assert.AnError },
		"count": func() int { return 3 },
	}
}

func newHandler(t *testing.T, notFound string) *Handler {
	t.Helper()
	engine, err := render.New(render.WithFS(fstest.MapFS{
		"index.html":      {Data: []byte(`{{ site }} home`)},
		"about.html":      {Data: []byte(`about {{ site }} q={{ query.q }} path={{ path }}`)},
		"blog/index.html": {Data: []byte(`blog index {{ count() }}`)},
		"broken.html":     {Data: []byte(`{{ boom() }}`)},
		"_layout.html":    {Data: []byte(`layout`)},
		"404.html":        {Data: []byte(`nothing at {{ path }}`)},
	}))
	require.NoError(t, err)
	return &Handler{Renderer: engine, Contexts: stubContexts{}, NotFound: notFound}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_RendersPages(t *testing.T) {
	h := newHandler(t, "")

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"root renders index", "/", "Inkwell home"},
		{"named template with query", "/about?q=go&q=ignored", "about Inkwell q=go path=/about"},
		{"directory renders its index", "/blog/", "blog index 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := newHandler(t, "")

	for _, target := range []string{"/missing", "/_layout", "/blog/.hidden", "/blog//index"} {
		t.Run(target, func(t *testing.T) {
			rec := get(h, target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestHandler_NotFoundTemplate(t *testing.T) {
	h := newHandler(t, "404")

	rec := get(h, "/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "nothing at /missing", rec.Body.String())
}

func TestHandler_RenderErrorIs500(t *testing.T) {
	h := newHandler(t, "")

	rec := get(h, "/broken")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error\n", rec.Body.String(), "render errors are not leaked")
}

func TestHandler_HeadOmitsBody(t *testing.T) {
	h := newHandler(t, "")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestTemplateName(t *testing.T) {
	h := &Handler{Index: "home"}

	name, err := h.templateName("/")
	require.NoError(t, err)
	assert.Equal(t, "home", name)

	name, err = h.templateName("/docs/setup")
	require.NoError(t, err)
	assert.Equal(t, "docs/setup", name)

	_, err = h.templateName("/docs/../secret")
	assert.ErrorIs(t, err, ErrInvalidName)
}
