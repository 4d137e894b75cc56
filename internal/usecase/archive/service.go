// Package archive computes the month list shown in the blog's archive widget.
package archive

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/repository"
)

// Service lists archive months.
type Service struct {
	Repo repository.ArticleRepository
	// Now returns the current time; time.Now when nil.
	// Months are computed in its location.
	Now func() time.Time
}

// Months returns the first instant of every month from the current month back
// to the month of the earliest article, newest first. With no articles it
// returns only the current month.
func (s *Service) Months(ctx context.Context) ([]time.Time, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	current := MonthStart(now)

	earliest, ok, err := s.Repo.EarliestCreatedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("earliest article: %w", err)
	}
	if !ok {
		return []time.Time{current}, nil
	}

	first := MonthStart(earliest.In(now.Location()))
	if first.After(current) {
		first = current
	}

	months := make([]time.Time, 0, 12)
	for m := current; !m.Before(first); m = m.AddDate(0, -1, 0) {
		months = append(months, m)
	}
	return months, nil
}

// MonthStart truncates t to midnight on the first day of its month, in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
