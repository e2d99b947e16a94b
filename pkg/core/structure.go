package core

import (
	"fmt"
	"strings"
)

// StructKind identifies the variant held by a Struct.
type StructKind int

// StructKind constants.
const (
	// StructObject holds both entries and properties.
	StructObject StructKind = iota
	// StructTable holds entries only.
	StructTable
	// StructMap holds properties only.
	StructMap
)

// String returns the display name of the kind.
func (k StructKind) String() string {
	switch k {
	case StructObject:
		return "Object"
	case StructTable:
		return "Table"
	case StructMap:
		return "Map"
	default:
		return "unknown"
	}
}

// AnonPrefix starts every synthetic entry name.
const AnonPrefix = "#anon"

// Entries maps entry names to nested structures. A nil structure marks an
// entry that was declared but not yet defined.
type Entries = OrderedMap[*Struct]

// Props maps property names to scalar values.
type Props = OrderedMap[Value]

// Struct is a parsed structure. Entries is nil for a Map and Props is nil
// for a Table.
type Struct struct {
	Kind    StructKind
	Entries *Entries
	Props   *Props
}

// NewObject creates an empty Object.
func NewObject() *Struct {
	return &Struct{Kind: StructObject, Entries: NewOrderedMap[*Struct](), Props: NewOrderedMap[Value]()}
}

// NewTable creates an empty Table.
func NewTable() *Struct {
	return &Struct{Kind: StructTable, Entries: NewOrderedMap[*Struct]()}
}

// NewMap creates an empty Map.
func NewMap() *Struct {
	return &Struct{Kind: StructMap, Props: NewOrderedMap[Value]()}
}

// HasEntries reports whether the variant may hold entries.
func (s *Struct) HasEntries() bool {
	return s.Kind == StructObject || s.Kind == StructTable
}

// HasProps reports whether the variant may hold properties.
func (s *Struct) HasProps() bool {
	return s.Kind == StructObject || s.Kind == StructMap
}

// Entry returns the entry stored under name. The returned bool is false when
// the name is unknown; a declared-empty entry returns (nil, true).
func (s *Struct) Entry(name string) (*Struct, bool) {
	return s.Entries.Get(name)
}

// Prop returns the property stored under name.
func (s *Struct) Prop(name string) (Value, bool) {
	return s.Props.Get(name)
}

// Clone returns a deep copy sharing nothing with s.
func (s *Struct) Clone() *Struct {
	if s == nil {
		return nil
	}
	return &Struct{
		Kind:    s.Kind,
		Entries: s.Entries.Clone((*Struct).Clone),
		Props:   s.Props.Clone(Value.Clone),
	}
}

// SetProp writes a property, replacing any earlier value under the same name.
func (s *Struct) SetProp(name string, v Value) error {
	if !s.HasProps() {
		return fmt.Errorf("%s cannot hold properties", s.Kind)
	}
	s.Props.Set(name, v)
	return nil
}

// AddAnonymous files st under the next synthetic name and returns that name.
func (s *Struct) AddAnonymous(st *Struct) (string, error) {
	if !s.HasEntries() {
		return "", fmt.Errorf("%s cannot hold entries", s.Kind)
	}
	name := fmt.Sprintf("%s%d", AnonPrefix, s.Entries.Len())
	s.Entries.Set(name, st)
	return name, nil
}

// Declare registers name as an empty entry. Declaring a name that already
// exists, filled or empty, is a *MergeError.
func (s *Struct) Declare(name string) error {
	if !s.HasEntries() {
		return fmt.Errorf("%s cannot hold entries", s.Kind)
	}
	if s.Entries.Has(name) {
		return &MergeError{Name: name, Empty: true}
	}
	s.Entries.Set(name, nil)
	return nil
}

// Define stores incoming under name. An empty or unknown entry is filled
// directly; a filled one is merged with incoming.
func (s *Struct) Define(name string, incoming *Struct) error {
	if !s.HasEntries() {
		return fmt.Errorf("%s cannot hold entries", s.Kind)
	}
	existing, ok := s.Entries.Get(name)
	if !ok || existing == nil {
		s.Entries.Set(name, incoming)
		return nil
	}
	merged, err := Merge(name, existing, incoming)
	if err != nil {
		return err
	}
	s.Entries.Set(name, merged)
	return nil
}

// IsAnonymous reports whether an entry name was synthesized for an unnamed literal.
func IsAnonymous(name string) bool {
	return strings.HasPrefix(name, "#")
}
