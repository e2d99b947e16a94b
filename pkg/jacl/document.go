package jacl

import (
	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/parser"
)

// Document is a successfully parsed JACL source.
type Document struct {
	root   *core.Struct
	source string
}

// Parse parses src into a Document.
func Parse(src string) (*Document, error) {
	root, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, source: src}, nil
}

// FromStruct wraps an already parsed root Object.
func FromStruct(root *core.Struct) *Document {
	return &Document{root: root}
}

// Root returns the top-level Object.
func (d *Document) Root() Object {
	return Object{s: d.root}
}

// Struct returns the underlying tree.
func (d *Document) Struct() *core.Struct {
	return d.root
}

// Source returns the text the document was parsed from, if known.
func (d *Document) Source() string {
	return d.source
}
