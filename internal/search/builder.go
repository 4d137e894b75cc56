package search

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Query is a compiled search ready to be executed.
// SQL uses PostgreSQL $N placeholders; Args holds their values in order.
type Query struct {
	Model  *Model
	SQL    string
	Args   []any
	Fields []Field
	Single bool
}

// Build validates p against m and compiles it into a Query.
// Results are not ordered unless p.OrderBy says so.
func Build(m *Model, p Params) (Query, error) {
	if m == nil {
		return Query{}, fmt.Errorf("%w: nil model", ErrUnknownModel)
	}

	b := &builder{}
	alias := b.nextAlias()

	cols := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		cols = append(cols, alias+"."+f.Column)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s %s", strings.Join(cols, ", "), m.Table, alias)

	conds, err := b.conditions(m, alias, p.Filters)
	if err != nil {
		return Query{}, err
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if len(p.OrderBy) > 0 {
		orders := make([]string, 0, len(p.OrderBy))
		for _, o := range p.OrderBy {
			f, ok := m.Field(o.Field)
			if !ok {
				return Query{}, invalidf("unknown order_by field %q on %s", o.Field, m.Name)
			}
			dir, err := direction(o.Direction)
			if err != nil {
				return Query{}, err
			}
			orders = append(orders, alias+"."+f.Column+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	limit := p.Limit
	if limit != nil && (*limit < 0 || *limit > MaxLimit) {
		return Query{}, invalidf("limit must be between 0 and %d", MaxLimit)
	}
	if limit == nil && p.Single {
		// Two rows are enough to tell "one" from "many".
		two := 2
		limit = &two
	}
	if limit != nil {
		fmt.Fprintf(&sb, " LIMIT %s", b.bind(*limit))
	}
	if p.Offset != nil {
		if *p.Offset < 0 {
			return Query{}, invalidf("offset cannot be negative")
		}
		fmt.Fprintf(&sb, " OFFSET %s", b.bind(*p.Offset))
	}

	return Query{
		Model:  m,
		SQL:    sb.String(),
		Args:   b.args,
		Fields: m.Fields,
		Single: p.Single,
	}, nil
}

type builder struct {
	args     []any
	aliasSeq int
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) nextAlias() string {
	a := "t" + strconv.Itoa(b.aliasSeq)
	b.aliasSeq++
	return a
}

func (b *builder) conditions(m *Model, alias string, filters []Filter) ([]string, error) {
	conds := make([]string, 0, len(filters))
	for _, f := range filters {
		c, err := b.condition(m, alias, f)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func (b *builder) condition(m *Model, alias string, f Filter) (string, error) {
	if len(f.Or) > 0 || len(f.And) > 0 {
		return b.group(m, alias, f)
	}
	if f.Name == "" {
		return "", invalidf("filter requires a name")
	}
	op, ok := normalizeOp(f.Op)
	if !ok {
		return "", invalidf("unknown operator %q", f.Op)
	}
	if op == opHas || op == opAny {
		return b.relation(m, alias, f, op)
	}

	field, ok := m.Field(f.Name)
	if !ok {
		return "", invalidf("unknown field %q on %s", f.Name, m.Name)
	}
	col := alias + "." + field.Column

	if f.Field != "" {
		return b.fieldComparison(m, alias, col, op, f)
	}

	switch op {
	case opIsNull:
		return col + " IS NULL", nil
	case opIsNotNull:
		return col + " IS NOT NULL", nil
	case opEq, opNeq, opGt, opLt, opGe, opLe:
		if f.Val == nil {
			switch op {
			case opEq:
				return col + " IS NULL", nil
			case opNeq:
				return col + " IS NOT NULL", nil
			}
			return "", invalidf("operator %q on %q requires a value", f.Op, f.Name)
		}
		v, err := coerce(field, f.Val)
		if err != nil {
			return "", err
		}
		return col + " " + comparisonSQL[op] + " " + b.bind(v), nil
	case opIn, opNotIn:
		return b.membership(field, col, op, f.Val)
	case opLike, opILike:
		if field.Kind != KindString {
			return "", invalidf("operator %q requires a string field, %q is %s", f.Op, f.Name, field.Kind)
		}
		s, ok := f.Val.(string)
		if !ok {
			return "", invalidf("operator %q on %q requires a string value", f.Op, f.Name)
		}
		keyword := "LIKE"
		if op == opILike {
			keyword = "ILIKE"
		}
		return col + " " + keyword + " " + b.bind(s), nil
	}
	return "", invalidf("operator %q is not supported on %q", f.Op, f.Name)
}

func (b *builder) group(m *Model, alias string, f Filter) (string, error) {
	if f.Name != "" || f.Op != "" {
		return "", invalidf("filter cannot mix a boolean group with a comparison")
	}
	if len(f.Or) > 0 && len(f.And) > 0 {
		return "", invalidf("filter cannot hold both 'or' and 'and'")
	}
	joiner, subs := " OR ", f.Or
	if len(f.And) > 0 {
		joiner, subs = " AND ", f.And
	}
	conds, err := b.conditions(m, alias, subs)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(conds, joiner) + ")", nil
}

func (b *builder) fieldComparison(m *Model, alias, col, op string, f Filter) (string, error) {
	sqlOp, ok := comparisonSQL[op]
	if !ok {
		return "", invalidf("operator %q cannot compare two fields", f.Op)
	}
	if f.Val != nil {
		return "", invalidf("filter on %q sets both 'val' and 'field'", f.Name)
	}
	other, ok := m.Field(f.Field)
	if !ok {
		return "", invalidf("unknown field %q on %s", f.Field, m.Name)
	}
	return col + " " + sqlOp + " " + alias + "." + other.Column, nil
}

func (b *builder) membership(field Field, col, op string, val any) (string, error) {
	items, ok := toSlice(val)
	if !ok {
		return "", invalidf("operator %q on %q requires a list value", op, field.Name)
	}
	if len(items) == 0 {
		if op == opIn {
			return "FALSE", nil
		}
		return "TRUE", nil
	}
	placeholders := make([]string, 0, len(items))
	for _, item := range items {
		v, err := coerce(field, item)
		if err != nil {
			return "", err
		}
		placeholders = append(placeholders, b.bind(v))
	}
	keyword := "IN"
	if op == opNotIn {
		keyword = "NOT IN"
	}
	return col + " " + keyword + " (" + strings.Join(placeholders, ", ") + ")", nil
}

func (b *builder) relation(m *Model, alias string, f Filter, op string) (string, error) {
	rel, ok := m.Relation(f.Name)
	if !ok {
		return "", invalidf("unknown relation %q on %s", f.Name, m.Name)
	}
	if op == opHas && rel.ToMany() {
		return "", invalidf("relation %q is to-many, use 'any'", f.Name)
	}
	if op == opAny && !rel.ToMany() {
		return "", invalidf("relation %q is to-one, use 'has'", f.Name)
	}

	nested, err := nestedFilter(f.Val)
	if err != nil {
		return "", err
	}

	target := rel.Target
	ta := b.nextAlias()

	var sb strings.Builder
	if rel.ToMany() {
		ja := "j" + strings.TrimPrefix(ta, "t")
		fmt.Fprintf(&sb, "EXISTS (SELECT 1 FROM %s %s JOIN %s %s ON %s.%s = %s.%s WHERE %s.%s = %s.%s",
			rel.JoinTable, ja, target.Table, ta,
			ta, target.PrimaryKey, ja, rel.JoinTarget,
			ja, rel.JoinLocal, alias, m.PrimaryKey)
	} else {
		fmt.Fprintf(&sb, "EXISTS (SELECT 1 FROM %s %s WHERE %s.%s = %s.%s",
			target.Table, ta, ta, target.PrimaryKey, alias, rel.LocalColumn)
	}

	if nested != nil {
		c, err := b.condition(target, ta, *nested)
		if err != nil {
			return "", err
		}
		sb.WriteString(" AND ")
		sb.WriteString(c)
	}
	sb.WriteString(")")
	return sb.String(), nil
}

// nestedFilter decodes the value of a has/any filter. A bare string matches
// the related record's slug.
func nestedFilter(val any) (*Filter, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case string:
		return &Filter{Name: "slug", Op: "eq", Val: v}, nil
	case Filter:
		return &v, nil
	case *Filter:
		return v, nil
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, invalidf("encode nested filter: %v", err)
		}
		p, err := decodeParams([]byte(`{"filters":[` + string(raw) + `]}`))
		if err != nil {
			return nil, err
		}
		return &p.Filters[0], nil
	}
	return nil, invalidf("relation filter value must be an object or a slug, got %T", val)
}

func direction(d string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", "asc":
		return "ASC", nil
	case "desc":
		return "DESC", nil
	}
	return "", invalidf("unknown order direction %q", d)
}

func toSlice(val any) ([]any, bool) {
	if items, ok := val.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(val)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// coerce converts a decoded JSON (or Go) value into the Go type of field.
func coerce(field Field, val any) (any, error) {
	switch field.Kind {
	case KindInt:
		switch v := val.(type) {
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, invalidf("field %q expects an integer, got %s", field.Name, v)
			}
			return n, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != float64(int64(v)) {
				return nil, invalidf("field %q expects an integer, got %v", field.Name, v)
			}
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, invalidf("field %q expects an integer, got %q", field.Name, v)
			}
			return n, nil
		}
	case KindString:
		if s, ok := val.(string); ok {
			return s, nil
		}
	case KindBool:
		switch v := val.(type) {
		case bool:
			return v, nil
		case string:
			bv, err := strconv.ParseBool(v)
			if err != nil {
				return nil, invalidf("field %q expects a boolean, got %q", field.Name, v)
			}
			return bv, nil
		}
	case KindTime:
		switch v := val.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
			return nil, invalidf("field %q expects a timestamp, got %q", field.Name, v)
		}
	}
	return nil, invalidf("field %q expects a %s value, got %T", field.Name, field.Kind, val)
}
