// Package templatectx builds the helper context every page template renders
// with: the searchable model descriptors plus the archive, category, article,
// search and label helpers.
package templatectx

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/flosch/pongo2/v6"

	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/logging"
	"inkwell/internal/observability/metrics"
	"inkwell/internal/observability/tracing"
	"inkwell/internal/search"
	articleUC "inkwell/internal/usecase/article"
)

// Helper names as seen by templates.
const (
	HelperArchives       = "archives"
	HelperModelQuery     = "model_query"
	HelperCategoryTree   = "category_tree"
	HelperCategoryIDs    = "get_category_ids"
	HelperRelated        = "get_related_articles"
	HelperTopArticles    = "get_top_articles"
	HelperLabel          = "label"
	DefaultMaxLabelDepth = 3
)

// ErrLabelDepth is returned when labels embed labels deeper than the configured limit.
var ErrLabelDepth = errors.New("label nesting too deep")

type ArchiveLister interface {
	Months(ctx context.Context) ([]time.Time, error)
}

type ArticleFinder interface {
	Related(ctx context.Context, id int64, limit int) ([]*entity.Article, error)
	Top(ctx context.Context, days, limit int) ([]*entity.Article, error)
}

type CategoryLister interface {
	Tree(ctx context.Context) ([]*entity.CategoryNode, error)
	DescendantIDs(ctx context.Context, id int64) ([]int64, error)
}

type LabelFinder interface {
	Get(ctx context.Context, slug string) (*entity.Label, error)
}

type ModelSearcher interface {
	Query(ctx context.Context, model any, params any) (any, error)
}

// StringRenderer renders a template held in a string.
type StringRenderer interface {
	RenderString(templateContent string, data pongo2.Context) (string, error)
}

// Processor produces template contexts. It holds no per-request state and is
// safe for concurrent use once constructed.
type Processor struct {
	Archives   ArchiveLister
	Articles   ArticleFinder
	Categories CategoryLister
	Labels     LabelFinder
	Queries    ModelSearcher
	// Models are exposed to templates under their names.
	Models   *search.Registry
	Renderer StringRenderer
	// MaxLabelDepth bounds label-in-label rendering; DefaultMaxLabelDepth when zero.
	MaxLabelDepth int
	Logger        *slog.Logger
}

// Context returns the helper context for one render. Helpers run their
// queries with ctx, so they stop when the request is cancelled.
func (p *Processor) Context(ctx context.Context) pongo2.Context {
	return p.build(ctx, 0)
}

func (p *Processor) build(ctx context.Context, depth int) pongo2.Context {
	c := pongo2.Context{}
	for _, m := range p.Models.Models() {
		c[m.Name] = m
	}

	c[HelperArchives] = func() ([]time.Time, error) {
		return observe(ctx, p.logger(), HelperArchives, func(ctx context.Context) ([]time.Time, error) {
			return p.Archives.Months(ctx)
		})
	}

	c[HelperModelQuery] = func(args ...*pongo2.Value) (any, error) {
		return observe(ctx, p.logger(), HelperModelQuery, func(ctx context.Context) (any, error) {
			if err := arity(HelperModelQuery, args, 1, 2); err != nil {
				return nil, err
			}
			var params any
			if len(args) > 1 {
				params = valueOf(args[1])
			}
			return p.Queries.Query(ctx, valueOf(args[0]), params)
		})
	}

	c[HelperCategoryTree] = func() ([]*entity.CategoryNode, error) {
		return observe(ctx, p.logger(), HelperCategoryTree, func(ctx context.Context) ([]*entity.CategoryNode, error) {
			return p.Categories.Tree(ctx)
		})
	}

	c[HelperCategoryIDs] = func(args ...*pongo2.Value) ([]int64, error) {
		return observe(ctx, p.logger(), HelperCategoryIDs, func(ctx context.Context) ([]int64, error) {
			if err := arity(HelperCategoryIDs, args, 1, 1); err != nil {
				return nil, err
			}
			id, err := intArg(args, 0, "category_id", 0)
			if err != nil {
				return nil, err
			}
			return p.Categories.DescendantIDs(ctx, int64(id))
		})
	}

	c[HelperRelated] = func(args ...*pongo2.Value) ([]*entity.Article, error) {
		return observe(ctx, p.logger(), HelperRelated, func(ctx context.Context) ([]*entity.Article, error) {
			if err := arity(HelperRelated, args, 1, 2); err != nil {
				return nil, err
			}
			id, err := intArg(args, 0, "article_id", 0)
			if err != nil {
				return nil, err
			}
			limit, err := intArg(args, 1, "limit", articleUC.DefaultRelatedLimit)
			if err != nil {
				return nil, err
			}
			return p.Articles.Related(ctx, int64(id), limit)
		})
	}

	c[HelperTopArticles] = func(args ...*pongo2.Value) ([]*entity.Article, error) {
		return observe(ctx, p.logger(), HelperTopArticles, func(ctx context.Context) ([]*entity.Article, error) {
			if err := arity(HelperTopArticles, args, 0, 2); err != nil {
				return nil, err
			}
			days, err := intArg(args, 0, "days", articleUC.DefaultTopDays)
			if err != nil {
				return nil, err
			}
			limit, err := intArg(args, 1, "limit", articleUC.DefaultTopLimit)
			if err != nil {
				return nil, err
			}
			return p.Articles.Top(ctx, days, limit)
		})
	}

	c[HelperLabel] = func(args ...*pongo2.Value) (*pongo2.Value, error) {
		return observe(ctx, p.logger(), HelperLabel, func(ctx context.Context) (*pongo2.Value, error) {
			if err := arity(HelperLabel, args, 1, 1); err != nil {
				return nil, err
			}
			return p.label(ctx, args[0].String(), depth)
		})
	}

	return c
}

// label renders the stored HTML of the label as a template with a helper
// context one level deeper, and marks the result safe.
func (p *Processor) label(ctx context.Context, slug string, depth int) (*pongo2.Value, error) {
	l, err := p.Labels.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return pongo2.AsValue(""), nil
	}
	if depth >= p.maxLabelDepth() {
		return nil, ErrLabelDepth
	}
	out, err := p.Renderer.RenderString(l.HTML, p.build(ctx, depth+1))
	if err != nil {
		return nil, err
	}
	return pongo2.AsSafeValue(out), nil
}

func (p *Processor) maxLabelDepth() int {
	if p.MaxLabelDepth > 0 {
		return p.MaxLabelDepth
	}
	return DefaultMaxLabelDepth
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// observe wraps one helper call in a span, records its metrics and logs failures.
func observe[T any](ctx context.Context, logger *slog.Logger, helper string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := tracing.StartHelper(ctx, helper)
	v, err := fn(ctx)
	tracing.EndSpan(span, err)
	metrics.RecordHelperCall(helper, err, time.Since(start))
	if err != nil {
		logging.WithTrace(ctx, logging.WithRequestID(ctx, logger)).Warn("template helper failed",
			slog.String("helper", helper),
			slog.Any("error", err))
	}
	return v, err
}
