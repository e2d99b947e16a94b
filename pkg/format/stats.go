package format

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/jacl/pkg/core"
)

// Stats summarizes the contents of a tree.
type Stats struct {
	Objects    int `json:"objects" yaml:"objects"`
	Tables     int `json:"tables" yaml:"tables"`
	Maps       int `json:"maps" yaml:"maps"`
	Anonymous  int `json:"anonymous" yaml:"anonymous"`
	Declared   int `json:"declared" yaml:"declared"` // entries declared but never defined
	Properties int `json:"properties" yaml:"properties"`
	References int `json:"references" yaml:"references"` // Key, Var and Foreign values, tuples included
	MaxDepth   int `json:"max_depth" yaml:"max_depth"`
}

// Collect walks st and counts its contents. The root itself is counted.
func Collect(st *core.Struct) Stats {
	var s Stats
	s.walk(st, 0)
	return s
}

func (s *Stats) walk(st *core.Struct, depth int) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	switch st.Kind {
	case core.StructObject:
		s.Objects++
	case core.StructTable:
		s.Tables++
	case core.StructMap:
		s.Maps++
	}
	for _, v := range st.Props.All() {
		s.Properties++
		s.References += countRefs(v)
	}
	for name, child := range st.Entries.All() {
		if core.IsAnonymous(name) {
			s.Anonymous++
		}
		if child == nil {
			s.Declared++
			continue
		}
		s.walk(child, depth+1)
	}
}

func countRefs(v core.Value) int {
	if v.IsReference() {
		return 1
	}
	n := 0
	for _, item := range v.Items {
		n += countRefs(item)
	}
	return n
}

// Row is a labelled count.
type Row struct {
	Label string
	Count int
}

// Rows returns the statistics as display rows with title-cased labels.
func (s Stats) Rows() []Row {
	title := cases.Title(language.English)
	raw := []struct {
		label string
		n     int
	}{
		{"objects", s.Objects},
		{"tables", s.Tables},
		{"maps", s.Maps},
		{"anonymous entries", s.Anonymous},
		{"declared entries", s.Declared},
		{"properties", s.Properties},
		{"references", s.References},
		{"max depth", s.MaxDepth},
	}
	rows := make([]Row, len(raw))
	for i, r := range raw {
		rows[i] = Row{Label: title.String(r.label), Count: r.n}
	}
	return rows
}
