package format

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/jacl/pkg/core"
)

// Exported documents have the shape
//
//	{kind, properties?, entries?}
//
// with entries holding nested documents, or null when only declared.
// Str, Int, Float and Bool values export natively, tuples as lists, and
// references as single-key maps: {key: name}, {var: name}, {foreign: name}.

// ToJSON exports st as indented JSON.
func ToJSON(st *core.Struct) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONStruct(&buf, st); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSONStruct(buf *bytes.Buffer, st *core.Struct) error {
	if st == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteString(`{"kind":`)
	buf.WriteString(strconv.Quote(st.Kind.String()))
	if st.HasProps() {
		buf.WriteString(`,"properties":{`)
		i := 0
		for name, v := range st.Props.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := writeJSONKey(buf, name); err != nil {
				return err
			}
			if err := writeJSONValue(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	if st.HasEntries() {
		buf.WriteString(`,"entries":{`)
		i := 0
		for name, child := range st.Entries.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := writeJSONKey(buf, name); err != nil {
				return err
			}
			if err := writeJSONStruct(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONKey(buf *bytes.Buffer, name string) error {
	b, err := json.Marshal(name)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v core.Value) error {
	b, err := json.Marshal(exportValue(v))
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// exportValue maps a value onto plain Go types for encoding.
func exportValue(v core.Value) any {
	switch v.Kind {
	case core.ValueKey:
		return map[string]string{"key": v.Text}
	case core.ValueVar:
		return map[string]string{"var": v.Text}
	case core.ValueForeign:
		return map[string]string{"foreign": v.Text}
	case core.ValueTuple:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = exportValue(item)
		}
		return out
	default:
		return v.Interface()
	}
}

// ToYAML exports st as YAML with declaration order preserved.
func ToYAML(st *core.Struct) ([]byte, error) {
	node, err := yamlStruct(st)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlStruct(st *core.Struct) (*yaml.Node, error) {
	if st == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, yamlString("kind"), yamlString(st.Kind.String()))

	if st.HasProps() {
		props := &yaml.Node{Kind: yaml.MappingNode}
		for name, v := range st.Props.All() {
			var vn yaml.Node
			if err := vn.Encode(exportValue(v)); err != nil {
				return nil, err
			}
			props.Content = append(props.Content, yamlString(name), &vn)
		}
		m.Content = append(m.Content, yamlString("properties"), props)
	}
	if st.HasEntries() {
		entries := &yaml.Node{Kind: yaml.MappingNode}
		for name, child := range st.Entries.All() {
			cn, err := yamlStruct(child)
			if err != nil {
				return nil, err
			}
			entries.Content = append(entries.Content, yamlString(name), cn)
		}
		m.Content = append(m.Content, yamlString("entries"), entries)
	}
	return m, nil
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
