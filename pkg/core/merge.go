package core

import "fmt"

// MergeError reports a conflicting redefinition of an entry.
type MergeError struct {
	Name     string
	Existing StructKind // kind already held under Name; unused when Empty is set
	Empty    bool       // the redefinition carried no new data
}

func (e *MergeError) Error() string {
	if e.Empty {
		return fmt.Sprintf("Entry %s redefined with no new data", e.Name)
	}
	return fmt.Sprintf("Entry %s already defined as %s", e.Name, e.Existing)
}

// Merge combines a second definition of name into the first and returns the
// result. Neither argument is modified.
//
//   - Object into Object: properties are overwritten in declaration order,
//     entries are merged recursively.
//   - Table into Table: entries are merged recursively.
//   - A Map never accepts a second definition.
//   - Any other pairing fails with the kind of existing.
func Merge(name string, existing, incoming *Struct) (*Struct, error) {
	if existing.Kind == StructMap || existing.Kind != incoming.Kind {
		return nil, &MergeError{Name: name, Existing: existing.Kind}
	}

	out := existing.Clone()
	if out.Kind == StructObject {
		for k, v := range incoming.Props.All() {
			out.Props.Set(k, v.Clone())
		}
	}
	if err := mergeEntries(out.Entries, incoming.Entries); err != nil {
		return nil, err
	}
	return out, nil
}

func mergeEntries(into, from *Entries) error {
	for k, next := range from.All() {
		prev, ok := into.Get(k)
		switch {
		case !ok:
			into.Set(k, next.Clone())
		case prev == nil && next == nil:
			return &MergeError{Name: k, Empty: true}
		case prev == nil:
			into.Set(k, next.Clone())
		case next == nil:
			return &MergeError{Name: k, Empty: true}
		default:
			merged, err := Merge(k, prev, next)
			if err != nil {
				return err
			}
			into.Set(k, merged)
		}
	}
	return nil
}
