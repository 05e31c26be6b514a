// Package ocproc defines the hierarchical observation record model shared by
// the QC engine and every codec: records, elements, nested metadata, and the
// quality-flag conventions layered on top of element metadata.
package ocproc

import (
	"fmt"
	"strconv"
)

// Kind discriminates the scalar variants a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable tagged union over the scalar types a record element
// may carry. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool wraps a boolean scalar.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps an integer scalar.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a floating-point scalar.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String wraps a string scalar.
func String(v string) Value { return Value{kind: KindString, s: v} }

// FromAny converts a dynamically-typed scalar (as produced by the mapping
// layer of a codec) into a Value. Unsupported types yield an error.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case string:
		return String(t), nil
	case fmt.Stringer:
		// json.Number and friends: prefer the narrowest numeric form.
		s := t.String()
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
		return Value{}, fmt.Errorf("ocproc: unparseable numeric value %q", s)
	default:
		return Value{}, fmt.Errorf("ocproc: unsupported scalar type %T", v)
	}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean form of the value if it has one.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i != 0, true
	case KindString:
		b, err := strconv.ParseBool(v.s)
		return b, err == nil
	default:
		return false, false
	}
}

// AsInt returns the integer form of the value if it has one. Floats convert
// only when they carry no fractional part.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		i := int64(v.f)
		if float64(i) == v.f {
			return i, true
		}
		return 0, false
	case KindString:
		i, err := strconv.ParseInt(v.s, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// AsFloat returns the floating-point form of the value if it has one.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsString returns the string form of the value. Every non-null variant has
// one.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), true
	default:
		return "", false
	}
}

// Raw returns the untyped scalar suitable for the generic mapping layer.
func (v Value) Raw() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal reports value equality. Numeric variants compare across int and
// float kinds so a round-trip through a lossy wire format still matches.
func (v Value) Equal(o Value) bool {
	if v.kind == o.kind {
		switch v.kind {
		case KindNull:
			return true
		case KindBool:
			return v.b == o.b
		case KindInt:
			return v.i == o.i
		case KindFloat:
			return v.f == o.f
		default:
			return v.s == o.s
		}
	}
	if (v.kind == KindInt || v.kind == KindFloat) && (o.kind == KindInt || o.kind == KindFloat) {
		vf, _ := v.AsFloat()
		of, _ := o.AsFloat()
		return vf == of
	}
	return false
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}
	s, _ := v.AsString()
	return s
}
