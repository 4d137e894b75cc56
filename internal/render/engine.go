// Package render wraps pongo2 as the site's template engine: file templates
// loaded from a directory or fs.FS, string templates for stored snippets, and
// the site's extra filters.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// ErrTemplateNotFound is returned by RenderTemplate when no loader has the template.
var ErrTemplateNotFound = errors.New("template not found")

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData pongo2.Context
	noCache    bool
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS. It is consulted after the base directory.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".html" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(pongo2.Context, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithoutCache reloads file templates on every render. Meant for development.
func WithoutCache() Option {
	return func(cfg *config) {
		cfg.noCache = true
	}
}

// Engine renders pongo2 templates. It is safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	sources     []fs.FS
	tplExt      string
	noCache     bool
}

// New constructs an Engine using the provided options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".html"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("render: need to provide either base dir or fs.FS")
	}

	var (
		loaders []pongo2.TemplateLoader
		sources []fs.FS
	)
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
		sources = append(sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
		sources = append(sources, cfg.templates)
	}

	set := pongo2.NewSet("inkwell", loaders...)
	set.Globals = make(pongo2.Context)
	set.Globals.Update(cfg.globalData)

	registerFilters()

	return &Engine{
		templateSet: set,
		templates:   make(map[string]*pongo2.Template),
		sources:     sources,
		tplExt:      cfg.extension,
		noCache:     cfg.noCache,
	}, nil
}

// RenderTemplate renders the named template with data into w.
// The engine's extension is appended when name lacks it.
func (e *Engine) RenderTemplate(w io.Writer, name string, data pongo2.Context) error {
	if e == nil || e.templateSet == nil {
		return errors.New("render: engine is nil")
	}
	templatePath := strings.TrimPrefix(name, "/")
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return err
	}

	// Buffer so a failing template writes nothing.
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return fmt.Errorf("render: execute template %q: %w", templatePath, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderString renders templateContent with data.
func (e *Engine) RenderString(templateContent string, data pongo2.Context) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("render: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("render: parse template string: %w", err)
	}
	out, err := tmpl.Execute(data)
	if err != nil {
		return "", fmt.Errorf("render: execute template string: %w", err)
	}
	return out, nil
}

// Exists reports whether a template with the given name can be loaded.
func (e *Engine) Exists(name string) bool {
	templatePath := strings.TrimPrefix(name, "/")
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}
	return e.exists(templatePath)
}

func (e *Engine) exists(templatePath string) bool {
	p := path.Clean(templatePath)
	if !fs.ValidPath(p) {
		return false
	}
	for _, src := range e.sources {
		if info, err := fs.Stat(src, p); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func (e *Engine) getTemplate(templatePath string) (*pongo2.Template, error) {
	if !e.exists(templatePath) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, templatePath)
	}

	if e.noCache {
		tmpl, err := e.templateSet.FromFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("render: load template %q: %w", templatePath, err)
		}
		return tmpl, nil
	}

	e.mu.RLock()
	if tmpl, ok := e.templates[templatePath]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[templatePath]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", templatePath, err)
	}

	e.templates[templatePath] = tmpl
	return tmpl, nil
}
