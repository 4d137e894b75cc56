package search

import (
	"database/sql"
	"fmt"
)

// Record is one search result keyed by field name. NULL columns map to nil.
type Record map[string]any

// ScanTargets returns fresh destinations for one row of q, in select order.
func (q Query) ScanTargets() []any {
	targets := make([]any, len(q.Fields))
	for i, f := range q.Fields {
		switch f.Kind {
		case KindInt:
			targets[i] = new(sql.NullInt64)
		case KindString:
			targets[i] = new(sql.NullString)
		case KindBool:
			targets[i] = new(sql.NullBool)
		case KindTime:
			targets[i] = new(sql.NullTime)
		default:
			targets[i] = new(any)
		}
	}
	return targets
}

// Record converts scanned targets (as returned by ScanTargets) into a Record.
func (q Query) Record(targets []any) (Record, error) {
	if len(targets) != len(q.Fields) {
		return nil, fmt.Errorf("record: got %d values for %d fields", len(targets), len(q.Fields))
	}
	rec := make(Record, len(q.Fields))
	for i, f := range q.Fields {
		switch v := targets[i].(type) {
		case *sql.NullInt64:
			rec[f.Name] = nullable(v.Valid, v.Int64)
		case *sql.NullString:
			rec[f.Name] = nullable(v.Valid, v.String)
		case *sql.NullBool:
			rec[f.Name] = nullable(v.Valid, v.Bool)
		case *sql.NullTime:
			rec[f.Name] = nullable(v.Valid, v.Time)
		case *any:
			rec[f.Name] = *v
		default:
			return nil, fmt.Errorf("record: unexpected target %T for field %q", v, f.Name)
		}
	}
	return rec, nil
}

func nullable[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}

// Single applies single-result semantics to a result set.
func Single(records []Record) (Record, error) {
	switch len(records) {
	case 0:
		return nil, ErrNoResult
	case 1:
		return records[0], nil
	default:
		return nil, ErrMultipleResults
	}
}
