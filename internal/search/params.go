package search

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// MaxLimit bounds the number of rows a single search may request.
const MaxLimit = 1000

// Params is a decoded restless search document.
type Params struct {
	Filters []Filter  `json:"filters,omitempty"`
	OrderBy []OrderBy `json:"order_by,omitempty"`
	Limit   *int      `json:"limit,omitempty"`
	Offset  *int      `json:"offset,omitempty"`
	Single  bool      `json:"single,omitempty"`
}

// Filter is one condition of a search. Exactly one form is used:
// a field comparison (Name, Op and either Val or Field), or a
// boolean group (Or / And).
type Filter struct {
	Name  string   `json:"name,omitempty"`
	Op    string   `json:"op,omitempty"`
	Val   any      `json:"val,omitempty"`
	Field string   `json:"field,omitempty"`
	Or    []Filter `json:"or,omitempty"`
	And   []Filter `json:"and,omitempty"`
}

// OrderBy sorts results by a field. Direction is "asc" (default) or "desc".
type OrderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// ParseParams accepts the shapes templates and Go callers pass to model_query:
// a Params value or pointer, a JSON string or byte slice, or a generic map.
// A nil or empty input yields zero Params (match everything).
func ParseParams(v any) (Params, error) {
	switch p := v.(type) {
	case nil:
		return Params{}, nil
	case Params:
		return p, nil
	case *Params:
		if p == nil {
			return Params{}, nil
		}
		return *p, nil
	case string:
		return decodeParams([]byte(p))
	case []byte:
		return decodeParams(p)
	default:
		if reflect.ValueOf(v).Kind() != reflect.Map {
			return Params{}, invalidf("unsupported params type %T", v)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return Params{}, invalidf("encode params: %v", err)
		}
		return decodeParams(raw)
	}
}

func decodeParams(raw []byte) (Params, error) {
	var p Params
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return Params{}, invalidf("decode params: %v", err)
	}
	if dec.More() {
		return Params{}, invalidf("trailing data after params")
	}
	return p, nil
}

// normalizeOp maps every accepted operator spelling to its canonical name.
func normalizeOp(op string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "==", "eq", "equals", "equal_to":
		return opEq, true
	case "!=", "neq", "ne", "does_not_equal", "not_equal_to":
		return opNeq, true
	case ">", "gt":
		return opGt, true
	case "<", "lt":
		return opLt, true
	case ">=", "ge", "gte", "geq":
		return opGe, true
	case "<=", "le", "lte", "leq":
		return opLe, true
	case "in":
		return opIn, true
	case "not_in":
		return opNotIn, true
	case "is_null":
		return opIsNull, true
	case "is_not_null":
		return opIsNotNull, true
	case "like":
		return opLike, true
	case "ilike":
		return opILike, true
	case "has":
		return opHas, true
	case "any":
		return opAny, true
	}
	return "", false
}

const (
	opEq        = "eq"
	opNeq       = "neq"
	opGt        = "gt"
	opLt        = "lt"
	opGe        = "ge"
	opLe        = "le"
	opIn        = "in"
	opNotIn     = "not_in"
	opIsNull    = "is_null"
	opIsNotNull = "is_not_null"
	opLike      = "like"
	opILike     = "ilike"
	opHas       = "has"
	opAny       = "any"
)

var comparisonSQL = map[string]string{
	opEq:  "=",
	opNeq: "<>",
	opGt:  ">",
	opLt:  "<",
	opGe:  ">=",
	opLe:  "<=",
}
