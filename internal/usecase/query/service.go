// Package query runs the generic model searches templates issue through
// model_query.
package query

import (
	"context"
	"fmt"

	"inkwell/internal/repository"
	"inkwell/internal/search"
)

// Service resolves a model, compiles the caller's parameters and runs the search.
type Service struct {
	Repo   repository.ModelRepository
	Models *search.Registry
}

// Query searches model with params.
// model is a *search.Model or a model name; params is anything
// search.ParseParams accepts. The result is a []search.Record, or a single
// search.Record when params ask for one.
func (s *Service) Query(ctx context.Context, model any, params any) (any, error) {
	m, err := s.resolve(model)
	if err != nil {
		return nil, err
	}
	p, err := search.ParseParams(params)
	if err != nil {
		return nil, err
	}
	q, err := search.Build(m, p)
	if err != nil {
		return nil, err
	}

	records, err := s.Repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", m.Name, err)
	}
	if q.Single {
		rec, err := search.Single(records)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", m.Name, err)
		}
		return rec, nil
	}
	return records, nil
}

func (s *Service) resolve(model any) (*search.Model, error) {
	switch v := model.(type) {
	case *search.Model:
		if v == nil {
			return nil, fmt.Errorf("%w: nil model", search.ErrUnknownModel)
		}
		// Only registered models may be searched.
		registered, err := s.Models.Lookup(v.Name)
		if err != nil {
			return nil, err
		}
		if registered != v {
			return nil, fmt.Errorf("%w %q", search.ErrUnknownModel, v.Name)
		}
		return v, nil
	case string:
		return s.Models.Lookup(v)
	case fmt.Stringer:
		return s.Models.Lookup(v.String())
	default:
		return nil, fmt.Errorf("%w: %T", search.ErrUnknownModel, model)
	}
}
