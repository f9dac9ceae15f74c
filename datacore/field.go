package datacore

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/teranos/coredata/errors"
)

// Kind is the value type of a field. Raw values are coerced to it.
type Kind int

const (
	Any Kind = iota
	String
	Int
	Float
	Bool
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Any:
		return "any"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// FieldSpec declares one named, typed field with an optional default.
type FieldSpec struct {
	name       string
	kind       Kind
	def        any
	defFunc    func() any
	hasDefault bool
}

// Field declares a field without a default: records must supply it.
func Field(name string, kind Kind) FieldSpec {
	return FieldSpec{name: name, kind: kind}
}

// Default returns a copy of the field that falls back to v when a record
// does not supply it. Lists and maps are copied per record.
func (f FieldSpec) Default(v any) FieldSpec {
	f.def = v
	f.defFunc = nil
	f.hasDefault = true
	return f
}

// DefaultFunc is like Default but calls fn for every record that needs the
// default.
func (f FieldSpec) DefaultFunc(fn func() any) FieldSpec {
	f.def = nil
	f.defFunc = fn
	f.hasDefault = true
	return f
}

func (f FieldSpec) Name() string { return f.name }

func (f FieldSpec) Kind() Kind { return f.kind }

func (f FieldSpec) HasDefault() bool { return f.hasDefault }

func (f FieldSpec) defaultValue() (any, error) {
	if f.defFunc != nil {
		return f.coerce(f.defFunc())
	}
	return f.coerce(f.def)
}

// coerce converts v to the field's kind. nil stays nil.
func (f FieldSpec) coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	var (
		out any
		err error
	)
	switch f.kind {
	case String:
		out, err = cast.ToStringE(v)
	case Int:
		out, err = toInt64(v)
	case Float:
		out, err = cast.ToFloat64E(v)
	case Bool:
		out, err = cast.ToBoolE(v)
	case List:
		if strs, ok := v.([]string); ok {
			items := make([]any, len(strs))
			for i, s := range strs {
				items[i] = s
			}
			out = items
			break
		}
		var items []any
		items, err = cast.ToSliceE(v)
		if err == nil {
			out = append([]any(nil), items...)
		}
	case Map:
		var m map[string]any
		m, err = cast.ToStringMapE(v)
		if err == nil {
			copied := make(map[string]any, len(m))
			for k, val := range m {
				copied[k] = val
			}
			out = copied
		}
	default:
		out = v
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRecord, "field %q: cannot use %v (%T) as %s", f.name, v, v, f.kind)
	}
	return out, nil
}

// toInt64 is cast.ToInt64E without the lossy cases: strings are read in base
// 10 only and floats must be whole.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	case float32:
		return wholeFloat(float64(n))
	case float64:
		return wholeFloat(n)
	}
	return cast.ToInt64E(v)
}

func wholeFloat(f float64) (int64, error) {
	if math.Trunc(f) != f || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.Newf("%v is not a whole int64", f)
	}
	return int64(f), nil
}
