package jacl

import "github.com/leapstack-labs/jacl/pkg/core"

// Node is a view of a structure of any variant.
type Node struct {
	s *core.Struct
}

// Kind returns the variant of the viewed structure.
func (n Node) Kind() core.StructKind { return n.s.Kind }

// Struct returns the viewed structure.
func (n Node) Struct() *core.Struct { return n.s }

// Object returns the node as an Object view.
func (n Node) Object() (Object, bool) {
	return Object{s: n.s}, n.s != nil && n.s.Kind == core.StructObject
}

// Table returns the node as a Table view.
func (n Node) Table() (Table, bool) {
	return Table{s: n.s}, n.s != nil && n.s.Kind == core.StructTable
}

// Map returns the node as a Map view.
func (n Node) Map() (Map, bool) {
	return Map{s: n.s}, n.s != nil && n.s.Kind == core.StructMap
}

// Entry is one item of an entries listing. Name is empty for anonymous
// entries. Defined is false for an entry that was declared but never given
// a body, in which case Node is the zero value.
type Entry struct {
	Name      string
	Key       string // name as stored, including synthetic names
	Anonymous bool
	Defined   bool
	Node      Node
}

// Property is one item of a properties listing.
type Property struct {
	Name  string
	Value core.Value
}

// Object views an Object structure.
type Object struct{ s *core.Struct }

// Entries lists the Object's entries in declaration order.
func (o Object) Entries() []Entry { return listEntries(o.s) }

// Properties lists the Object's properties in declaration order.
func (o Object) Properties() []Property { return listProps(o.s) }

// Entry returns the defined entry called name.
func (o Object) Entry(name string) (Node, bool) { return getEntry(o.s, name) }

// Declared reports whether name exists as an entry, defined or not.
func (o Object) Declared(name string) bool { return o.s.Entries.Has(name) }

// Property returns the property called name.
func (o Object) Property(name string) (core.Value, bool) { return o.s.Prop(name) }

// ResolveKey returns the entry a Key value refers to.
func (o Object) ResolveKey(v core.Value) (Node, bool) { return resolveKey(o.s, v) }

// Node returns the Object as a generic Node.
func (o Object) Node() Node { return Node(o) }

// Table views a Table structure.
type Table struct{ s *core.Struct }

// Entries lists the Table's entries in declaration order.
func (t Table) Entries() []Entry { return listEntries(t.s) }

// Entry returns the defined entry called name.
func (t Table) Entry(name string) (Node, bool) { return getEntry(t.s, name) }

// Declared reports whether name exists as an entry, defined or not.
func (t Table) Declared(name string) bool { return t.s.Entries.Has(name) }

// ResolveKey returns the entry a Key value refers to.
func (t Table) ResolveKey(v core.Value) (Node, bool) { return resolveKey(t.s, v) }

// Node returns the Table as a generic Node.
func (t Table) Node() Node { return Node(t) }

// Map views a Map structure.
type Map struct{ s *core.Struct }

// Properties lists the Map's properties in declaration order.
func (m Map) Properties() []Property { return listProps(m.s) }

// Property returns the property called name.
func (m Map) Property(name string) (core.Value, bool) { return m.s.Prop(name) }

// Node returns the Map as a generic Node.
func (m Map) Node() Node { return Node(m) }

func listEntries(s *core.Struct) []Entry {
	out := make([]Entry, 0, s.Entries.Len())
	for key, st := range s.Entries.All() {
		e := Entry{Key: key, Anonymous: core.IsAnonymous(key), Defined: st != nil}
		if !e.Anonymous {
			e.Name = key
		}
		if st != nil {
			e.Node = Node{s: st}
		}
		out = append(out, e)
	}
	return out
}

func listProps(s *core.Struct) []Property {
	out := make([]Property, 0, s.Props.Len())
	for name, v := range s.Props.All() {
		out = append(out, Property{Name: name, Value: v})
	}
	return out
}

func getEntry(s *core.Struct, name string) (Node, bool) {
	st, ok := s.Entry(name)
	if !ok || st == nil {
		return Node{}, false
	}
	return Node{s: st}, true
}

func resolveKey(s *core.Struct, v core.Value) (Node, bool) {
	if v.Kind != core.ValueKey {
		return Node{}, false
	}
	return getEntry(s, v.Text)
}
