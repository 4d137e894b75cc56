package templatectx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// ErrInvalidArgument is returned when a template passes a helper the wrong arguments.
var ErrInvalidArgument = errors.New("invalid helper argument")

func arity(helper string, args []*pongo2.Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrInvalidArgument, helper, lo, len(args))
		}
		return fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrInvalidArgument, helper, lo, hi, len(args))
	}
	return nil
}

// intArg reads args[i] as an integer, returning def when it is absent.
// Integral floats and numeric strings are accepted.
func intArg(args []*pongo2.Value, i int, name string, def int) (int, error) {
	if i >= len(args) || args[i] == nil || args[i].IsNil() {
		return def, nil
	}
	v := args[i]
	switch {
	case v.IsInteger():
		return v.Integer(), nil
	case v.IsFloat():
		f := v.Float()
		if f == math.Trunc(f) && f >= math.MinInt && f < -math.MinInt {
			return int(f), nil
		}
	case v.IsString():
		if n, err := strconv.Atoi(strings.TrimSpace(v.String())); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidArgument, name, v.String())
}

func valueOf(v *pongo2.Value) any {
	if v == nil || v.IsNil() {
		return nil
	}
	return v.Interface()
}
