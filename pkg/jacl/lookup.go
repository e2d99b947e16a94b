package jacl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/jacl/pkg/core"
)

// Lookup errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrUndefined  = errors.New("entry declared but not defined")
	ErrNotStruct  = errors.New("value is not a structure")
	ErrUnboundVar = errors.New("unbound variable")
	ErrEmptyPath  = errors.New("empty path")
)

// Result is the target of a path lookup: either a structure or a property value.
type Result struct {
	Path    string
	Node    Node
	Value   core.Value
	IsValue bool
}

// String renders the result for display.
func (r Result) String() string {
	if r.IsValue {
		return r.Value.String()
	}
	return r.Node.Kind().String()
}

// Lookup follows a dotted path from the root. Each segment names an entry
// or a property of the current structure. A Key property in the middle of
// a path is followed to the sibling entry it names.
func (d *Document) Lookup(path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	cur := d.root

	for i, seg := range segments {
		last := i == len(segments)-1
		walked := strings.Join(segments[:i+1], ".")

		if st, ok := cur.Entry(seg); ok {
			if st == nil {
				return Result{}, fmt.Errorf("%s: %w", walked, ErrUndefined)
			}
			cur = st
			continue
		}

		v, ok := cur.Prop(seg)
		if !ok {
			return Result{}, fmt.Errorf("%s: %w", walked, ErrNotFound)
		}
		if last {
			return Result{Path: path, Value: v, IsValue: true}, nil
		}
		next, ok := resolveKey(cur, v)
		if !ok {
			return Result{}, fmt.Errorf("%s (%s): %w", walked, v, ErrNotStruct)
		}
		cur = next.s
	}
	return Result{Path: path, Node: Node{s: cur}}, nil
}

// ResolveVar substitutes Var references, including those nested in tuples,
// with values from vars. Other values are returned unchanged.
func ResolveVar(v core.Value, vars map[string]any) (core.Value, error) {
	switch v.Kind {
	case core.ValueVar:
		raw, ok := vars[v.Text]
		if !ok {
			return core.Value{}, fmt.Errorf("$%s: %w", v.Text, ErrUnboundVar)
		}
		return FromGo(raw)
	case core.ValueTuple:
		items := make([]core.Value, len(v.Items))
		for i, item := range v.Items {
			r, err := ResolveVar(item, vars)
			if err != nil {
				return core.Value{}, err
			}
			items[i] = r
		}
		return core.Tuple(items...), nil
	default:
		return v, nil
	}
}

// FromGo converts a plain Go value, as decoded from YAML or JSON, to a Value.
func FromGo(raw any) (core.Value, error) {
	switch x := raw.(type) {
	case core.Value:
		return x, nil
	case string:
		return core.Str(x), nil
	case bool:
		return core.Bool(x), nil
	case int:
		return core.Int(int64(x)), nil
	case int64:
		return core.Int(x), nil
	case uint64:
		return core.Int(int64(x)), nil //nolint:gosec // values come from small config numbers
	case float64:
		return core.Float(x), nil
	case []any:
		items := make([]core.Value, len(x))
		for i, item := range x {
			v, err := FromGo(item)
			if err != nil {
				return core.Value{}, err
			}
			items[i] = v
		}
		return core.Tuple(items...), nil
	default:
		return core.Value{}, fmt.Errorf("unsupported variable type %T", raw)
	}
}
