package core

import (
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

// ValueKind constants.
const (
	// ValueKey references a sibling entry by name.
	ValueKey ValueKind = iota
	// ValueVar references a variable supplied by the caller.
	ValueVar
	// ValueForeign references a name in another document or namespace.
	ValueForeign
	ValueStr
	ValueInt
	ValueFloat
	ValueBool
	// ValueTuple is an ordered, possibly nested, sequence of scalars.
	ValueTuple
)

// String returns the display name of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueKey:
		return "Key"
	case ValueVar:
		return "Var"
	case ValueForeign:
		return "Foreign"
	case ValueStr:
		return "Str"
	case ValueInt:
		return "Int"
	case ValueFloat:
		return "Float"
	case ValueBool:
		return "Bool"
	case ValueTuple:
		return "Tuple"
	default:
		return "unknown"
	}
}

// Value is a scalar or reference held in a property.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Text  string // Key, Var and Foreign names; Str contents
	Int   int64
	Float float64
	Bool  bool
	Items []Value // Tuple elements
}

// Key returns a reference to the sibling entry called name.
func Key(name string) Value { return Value{Kind: ValueKey, Text: name} }

// Var returns a reference to the external variable called name.
func Var(name string) Value { return Value{Kind: ValueVar, Text: name} }

// Foreign returns a reference to name in another namespace.
func Foreign(name string) Value { return Value{Kind: ValueForeign, Text: name} }

// Str returns a string value.
func Str(s string) Value { return Value{Kind: ValueStr, Text: s} }

// Int returns a 64-bit integer value.
func Int(i int64) Value { return Value{Kind: ValueInt, Int: i} }

// Float returns a 64-bit float value.
func Float(f float64) Value { return Value{Kind: ValueFloat, Float: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// Tuple returns a tuple of the given items.
func Tuple(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: ValueTuple, Items: items}
}

// IsReference reports whether the value names something rather than holding data.
func (v Value) IsReference() bool {
	return v.Kind == ValueKey || v.Kind == ValueVar || v.Kind == ValueForeign
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	if v.Kind != ValueTuple {
		return v
	}
	items := make([]Value, len(v.Items))
	for i, item := range v.Items {
		items[i] = item.Clone()
	}
	v.Items = items
	return v
}

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueKey, ValueVar, ValueForeign, ValueStr:
		return v.Text == o.Text
	case ValueInt:
		return v.Int == o.Int
	case ValueFloat:
		return v.Float == o.Float
	case ValueBool:
		return v.Bool == o.Bool
	case ValueTuple:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts the value to a plain Go value.
// References keep their sigil so they stay distinguishable from strings.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueKey, ValueVar, ValueForeign:
		return v.String()
	case ValueStr:
		return v.Text
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueBool:
		return v.Bool
	case ValueTuple:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}
		return out
	}
	return nil
}

// String renders the value in source-like notation.
func (v Value) String() string {
	switch v.Kind {
	case ValueKey:
		return v.Text
	case ValueVar:
		return "$" + v.Text
	case ValueForeign:
		return "@" + v.Text
	case ValueStr:
		return strconv.Quote(v.Text)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueTuple:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "<invalid>"
}
