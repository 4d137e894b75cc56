package search

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the value type of a searchable field.
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Field maps a public field name to a column of the model's table.
type Field struct {
	Name     string
	Column   string
	Kind     Kind
	Nullable bool
}

// Relation describes how a model reaches another model for the has/any operators.
//
// A to-one relation sets LocalColumn: the source column holding the target's primary key.
// A to-many relation sets JoinTable, JoinLocal and JoinTarget: rows of JoinTable link
// JoinLocal (source primary key) to JoinTarget (target primary key).
type Relation struct {
	Name   string
	Target *Model

	LocalColumn string

	JoinTable  string
	JoinLocal  string
	JoinTarget string
}

// ToMany reports whether the relation goes through a join table.
func (r *Relation) ToMany() bool { return r.JoinTable != "" }

// Model is a searchable table. Only the listed fields may appear in filters,
// orderings and results.
type Model struct {
	Name       string
	Table      string
	PrimaryKey string
	Fields     []Field
	Relations  []*Relation
}

// Field returns the field with the given name.
func (m *Model) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Relation returns the relation with the given name.
func (m *Model) Relation(name string) (*Relation, bool) {
	for _, r := range m.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// String returns the model name so templates can print model constants.
func (m *Model) String() string { return m.Name }

// Registry resolves models by name. Lookups are case-insensitive.
type Registry struct {
	models map[string]*Model
}

// NewRegistry indexes the given models by name.
func NewRegistry(models ...*Model) *Registry {
	r := &Registry{models: make(map[string]*Model, len(models))}
	for _, m := range models {
		if m == nil {
			continue
		}
		r.models[strings.ToLower(m.Name)] = m
	}
	return r
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (*Model, error) {
	if r != nil {
		if m, ok := r.models[strings.ToLower(strings.TrimSpace(name))]; ok {
			return m, nil
		}
	}
	return nil, invalidModel(name)
}

// Models returns the registered models sorted by name.
func (r *Registry) Models() []*Model {
	if r == nil {
		return nil
	}
	out := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func invalidModel(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownModel, name)
}
