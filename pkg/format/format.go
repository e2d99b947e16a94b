package format

import (
	"io"

	"github.com/leapstack-labs/jacl/pkg/core"
)

// Outline writes an indented view of st: properties as `name = value`,
// entries as `name: Kind` followed by their contents.
func Outline(w io.Writer, st *core.Struct) error {
	_, err := io.WriteString(w, OutlineString(st))
	return err
}

// OutlineString returns the outline of st.
func OutlineString(st *core.Struct) string {
	p := newPrinter()
	p.formatBody(st)
	return p.String()
}

func (p *Printer) formatBody(st *core.Struct) {
	if st == nil {
		return
	}
	for name, v := range st.Props.All() {
		p.write(name + " = " + v.String())
		p.writeln()
	}
	for name, child := range st.Entries.All() {
		if child == nil {
			p.write(name + ": <declared>")
			p.writeln()
			continue
		}
		p.write(name + ": " + child.Kind.String())
		p.writeln()
		p.indent()
		p.formatBody(child)
		p.dedent()
	}
}
