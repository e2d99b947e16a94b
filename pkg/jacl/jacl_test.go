package jacl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/parser"
)

const sample = `
name = "demo"
db = { host = "localhost"; port = 5432 }
services [
  web { replicas = 2 }
  { anonymous = true }
  pending
]
labels {% team = "core"; tier = 1 %}
addr = ($host, 80)
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(src)
	require.NoError(t, err)
	return doc
}

func TestParseError(t *testing.T) {
	_, err := Parse("a = ")
	require.Error(t, err)
	se, ok := parser.AsSourceError(err)
	require.True(t, ok)
	assert.Contains(t, se.Render(), "[E158]")
}

func TestObjectViews(t *testing.T) {
	doc := mustParse(t, sample)
	root := doc.Root()

	var names []string
	for _, p := range root.Properties() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name", "db", "addr"}, names)

	entries := root.Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Anonymous, "struct bound to db is anonymous")
	assert.Empty(t, entries[0].Name)
	assert.Equal(t, "#anon0", entries[0].Key)
	assert.Equal(t, "services", entries[1].Name)
	assert.Equal(t, "labels", entries[2].Name)

	v, ok := root.Property("db")
	require.True(t, ok)
	db, ok := root.ResolveKey(v)
	require.True(t, ok)
	obj, ok := db.Object()
	require.True(t, ok)
	port, _ := obj.Property("port")
	assert.Equal(t, core.Int(5432), port)

	_, ok = root.ResolveKey(core.Str("#anon0"))
	assert.False(t, ok, "only Key values resolve")
}

func TestTableView(t *testing.T) {
	doc := mustParse(t, sample)
	node, ok := doc.Root().Entry("services")
	require.True(t, ok)
	assert.Equal(t, core.StructTable, node.Kind())

	tbl, ok := node.Table()
	require.True(t, ok)
	_, isObj := node.Object()
	assert.False(t, isObj)

	entries := tbl.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "web", entries[0].Name)
	assert.True(t, entries[1].Anonymous)
	assert.True(t, entries[1].Defined)
	assert.Equal(t, "pending", entries[2].Name)
	assert.False(t, entries[2].Defined)

	_, ok = tbl.Entry("pending")
	assert.False(t, ok, "declared-empty entries have no structure")
	assert.True(t, tbl.Declared("pending"))
	assert.False(t, tbl.Declared("missing"))
}

func TestMapView(t *testing.T) {
	doc := mustParse(t, sample)
	node, ok := doc.Root().Entry("labels")
	require.True(t, ok)
	m, ok := node.Map()
	require.True(t, ok)

	props := m.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, Property{Name: "team", Value: core.Str("core")}, props[0])
	tier, ok := m.Property("tier")
	require.True(t, ok)
	assert.Equal(t, core.Int(1), tier)
}

func TestLookup(t *testing.T) {
	doc := mustParse(t, sample)

	tests := []struct {
		path    string
		isValue bool
		want    string
	}{
		{"name", true, `"demo"`},
		{"db.port", true, "5432"},
		{"db", true, "#anon0"},
		{"services", false, "Table"},
		{"services.web.replicas", true, "2"},
		{"services.#anon1.anonymous", true, "true"},
		{"labels.team", true, `"core"`},
		{"#anon0.host", true, `"localhost"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, err := doc.Lookup(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.isValue, r.IsValue)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestLookupErrors(t *testing.T) {
	doc := mustParse(t, sample)

	tests := []struct {
		path string
		want error
	}{
		{"", ErrEmptyPath},
		{"missing", ErrNotFound},
		{"db.missing", ErrNotFound},
		{"services.pending", ErrUndefined},
		{"name.length", ErrNotStruct},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := doc.Lookup(tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveVar(t *testing.T) {
	doc := mustParse(t, sample)
	addr, _ := doc.Root().Property("addr")

	got, err := ResolveVar(addr, map[string]any{"host": "10.0.0.1"})
	require.NoError(t, err)
	assert.True(t, core.Tuple(core.Str("10.0.0.1"), core.Int(80)).Equal(got))

	_, err = ResolveVar(addr, nil)
	assert.ErrorIs(t, err, ErrUnboundVar)

	same, err := ResolveVar(core.Int(1), nil)
	require.NoError(t, err)
	assert.Equal(t, core.Int(1), same)
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		in   any
		want core.Value
	}{
		{"s", core.Str("s")},
		{true, core.Bool(true)},
		{3, core.Int(3)},
		{int64(4), core.Int(4)},
		{uint64(5), core.Int(5)},
		{1.5, core.Float(1.5)},
		{[]any{"a", 1}, core.Tuple(core.Str("a"), core.Int(1))},
	}
	for _, tt := range tests {
		got, err := FromGo(tt.in)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "FromGo(%v) = %s", tt.in, got)
	}

	_, err := FromGo(map[string]any{})
	assert.Error(t, err)
}

func TestViewsDoNotMutate(t *testing.T) {
	doc := mustParse(t, sample)
	before := doc.Struct().Clone()
	_ = doc.Root().Entries()
	_, _ = doc.Lookup("services.web.replicas")
	_, _ = doc.Lookup("missing")
	assert.Equal(t, before.Entries.Keys(), doc.Struct().Entries.Keys())
	assert.Equal(t, before.Props.Keys(), doc.Struct().Props.Keys())
}
