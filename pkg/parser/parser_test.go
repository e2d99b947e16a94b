package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jacl/pkg/core"
)

func parseOK(t *testing.T, input string) *core.Struct {
	t.Helper()
	root, err := Parse(input)
	if se, ok := AsSourceError(err); ok {
		t.Fatalf("unexpected error:\n%s", se.Render())
	}
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func parseErr(t *testing.T, input string) *Error {
	t.Helper()
	_, err := Parse(input)
	require.Error(t, err)
	se, ok := AsSourceError(err)
	require.True(t, ok, "error should be a *SourceError")
	require.NotEmpty(t, se.Errors)
	return se.Errors[0]
}

func prop(t *testing.T, st *core.Struct, name string) core.Value {
	t.Helper()
	v, ok := st.Prop(name)
	require.True(t, ok, "property %q", name)
	return v
}

func entry(t *testing.T, st *core.Struct, name string) *core.Struct {
	t.Helper()
	e, ok := st.Entry(name)
	require.True(t, ok, "entry %q", name)
	return e
}

func TestParse_BindingsAndAnonymousStruct(t *testing.T) {
	root := parseOK(t, `a = 1;b="x";c={ d = true; };`)

	assert.Equal(t, core.StructObject, root.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, root.Props.Keys())
	assert.Equal(t, core.Int(1), prop(t, root, "a"))
	assert.Equal(t, core.Str("x"), prop(t, root, "b"))
	assert.Equal(t, core.Key("#anon0"), prop(t, root, "c"))

	assert.Equal(t, []string{"#anon0"}, root.Entries.Keys())
	anon := entry(t, root, "#anon0")
	assert.Equal(t, core.StructObject, anon.Kind)
	assert.Equal(t, core.Bool(true), prop(t, anon, "d"))
	assert.Equal(t, 0, anon.Entries.Len())
}

func TestParse_EmptyDocument(t *testing.T) {
	for _, input := range []string{"", "\n\n", ";;;", "  \n ; \n"} {
		root := parseOK(t, input)
		assert.Equal(t, 0, root.Props.Len())
		assert.Equal(t, 0, root.Entries.Len())
	}
}

func TestParse_Values(t *testing.T) {
	root := parseOK(t, `
k = other
v = $env
f = @lib
s = "text"
i = 42
n = -7
x = 2.5
y = -0.5
b = false
t = (1, "two", (three, $four), @five)
`)

	tests := []struct {
		name string
		want core.Value
	}{
		{"k", core.Key("other")},
		{"v", core.Var("env")},
		{"f", core.Foreign("lib")},
		{"s", core.Str("text")},
		{"i", core.Int(42)},
		{"n", core.Int(-7)},
		{"x", core.Float(2.5)},
		{"y", core.Float(-0.5)},
		{"b", core.Bool(false)},
		{"t", core.Tuple(core.Int(1), core.Str("two"), core.Tuple(core.Key("three"), core.Var("four")), core.Foreign("five"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(prop(t, root, tt.name)), "got %s", prop(t, root, tt.name))
		})
	}
}

func TestParse_MultipleBinding(t *testing.T) {
	root := parseOK(t, "a, b, c = 5\nx, y = { z = 1 }")
	for _, n := range []string{"a", "b", "c"} {
		assert.Equal(t, core.Int(5), prop(t, root, n))
	}
	assert.Equal(t, core.Key("#anon0"), prop(t, root, "x"))
	assert.Equal(t, core.Key("#anon0"), prop(t, root, "y"))
	assert.Equal(t, 1, root.Entries.Len())
}

func TestParse_PropertyOverwrite(t *testing.T) {
	root := parseOK(t, "a = 1\nb = 2\na = 3")
	assert.Equal(t, []string{"a", "b"}, root.Props.Keys())
	assert.Equal(t, core.Int(3), prop(t, root, "a"))
}

func TestParse_StructVariants(t *testing.T) {
	root := parseOK(t, `
obj { p = 1 }
tbl [ row { q = 2 } ]
m {% r = 3 %}
`)
	assert.Equal(t, core.StructObject, entry(t, root, "obj").Kind)

	tbl := entry(t, root, "tbl")
	assert.Equal(t, core.StructTable, tbl.Kind)
	assert.Nil(t, tbl.Props)
	assert.Equal(t, core.Int(2), prop(t, entry(t, tbl, "row"), "q"))

	m := entry(t, root, "m")
	assert.Equal(t, core.StructMap, m.Kind)
	assert.Nil(t, m.Entries)
	assert.Equal(t, core.Int(3), prop(t, m, "r"))
}

func TestParse_AnonymousEntries(t *testing.T) {
	root := parseOK(t, `
{ a = 1 }
named { }
[ ]
{% b = 2 %}
`)
	assert.Equal(t, []string{"#anon0", "named", "#anon2", "#anon3"}, root.Entries.Keys())
	assert.Equal(t, core.StructTable, entry(t, root, "#anon2").Kind)
	assert.Equal(t, core.StructMap, entry(t, root, "#anon3").Kind)

	tbl := parseOK(t, "t [ {}\n{}\n{} ]")
	assert.Equal(t, []string{"#anon0", "#anon1", "#anon2"}, entry(t, tbl, "t").Entries.Keys())
}

func TestParse_CompoundEntry(t *testing.T) {
	root := parseOK(t, "a + b + c { x = 1 }\nb { y = 2 }")
	assert.Equal(t, []string{"a", "b", "c"}, root.Entries.Keys())

	a, b := entry(t, root, "a"), entry(t, root, "b")
	assert.NotSame(t, a, b, "each name receives its own copy")
	assert.Equal(t, []string{"x"}, a.Props.Keys())
	assert.Equal(t, []string{"x", "y"}, b.Props.Keys())
}

func TestParse_MergeRepeatedEntries(t *testing.T) {
	root := parseOK(t, `
server { host = "a"; port = 1 }
server { port = 2; tls { on = true } }
server { tls { cert = "c" } }
`)
	server := entry(t, root, "server")
	assert.Equal(t, []string{"host", "port"}, server.Props.Keys())
	assert.Equal(t, core.Int(2), prop(t, server, "port"), "later declaration wins")

	tls := entry(t, server, "tls")
	assert.Equal(t, []string{"on", "cert"}, tls.Props.Keys())
}

func TestParse_EmptyEntries(t *testing.T) {
	root := parseOK(t, "later\nother;\nlater { v = 1 }")
	assert.Equal(t, []string{"later", "other"}, root.Entries.Keys())
	assert.NotNil(t, entry(t, root, "later"))
	assert.Nil(t, entry(t, root, "other"), "declared but never defined")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		code    int
		message string
		tokLit  string
	}{
		{"empty entry declared twice", "x; x;", CodeNoNewData, "Entry x redefined with no new data", "x"},
		{"filled entry redeclared", "x {}\nx", CodeNoNewData, "Entry x redefined with no new data", "x"},
		{"binding in table", "t [\n  k = 1;\n]", CodeTableBinding, "Tables cannot contain Bindings", "="},
		{"struct binding in table", "t [ k = {} ]", CodeTableBinding, "Tables cannot contain Bindings", "="},
		{"entry in map", "m {% e { } %}", CodeMapEntry, "Maps cannot contain Entries", "e"},
		{"empty entry in map", "m {%\n e\n%}", CodeMapEntry, "Maps cannot contain Entries", "e"},
		{"anonymous in map", "m {% {} %}", CodeMapEntry, "Maps cannot contain Entries", "{"},
		{"struct binding in map", "m {% k = [] %}", CodeMapEntry, "Maps cannot contain Entries", "["},
		{"redefine map", "m {% a = 1 %}\nm {% a = 1 %}", CodeDefinedMap, "Entry m already defined as Map", "m"},
		{"table as object", "t []\nt {}", CodeDefinedTable, "Entry t already defined as Table", "t"},
		{"object as table", "o {}\no []", CodeDefinedObject, "Entry o already defined as Object", "o"},
		{"compound conflict", "a []\na + b {}", CodeDefinedTable, "Entry a already defined as Table", "a"},
		{"nested conflict", "a { b {} }\na { b [] }", CodeDefinedObject, "Entry b already defined as Object", "a"},
		{"bad binding list", "a, b c = 1", CodeBindingList, "Expected '=' or ','", "c"},
		{"missing value", "a = ;", CodeExpectedValue, "Expected Value", ";"},
		{"empty tuple", "a = ()", CodeExpectedValue, "Expected Value", ")"},
		{"bad tuple", "a = (1 2)", CodeTupleSyntax, "Invalid syntax inside tuple", "2"},
		{"struct in tuple", "a = (1, {})", CodeTupleStruct, "Tuples cannot contain Structures", "{"},
		{"expected struct", "a b", CodeExpectedStruct, "Expected Struct", "b"},
		{"anonymous non-struct", "42", CodeExpectedStruct, "Expected Struct", "42"},
		{"mismatched closer", "a { ]", CodeExpected, "Expected '}'", "]"},
		{"stray closer", "a = 1\n}", CodeUnmatched, "Unmatched closing delimiter", "}"},
		{"negated name", "a = -b", CodeExpected, "Expected number", "b"},
		{"var without name", "a = $1", CodeExpected, "Expected name", "1"},
		{"wildcard", "a * {}", CodeWildcard, "Wildcard entries are not supported", "*"},
		{"property entry", "a $b", CodePropertyEntry, "Property entries are not supported", "$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.input)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			require.NotNil(t, err.Token)
			assert.Equal(t, tt.tokLit, err.Token.Literal)
			assert.NotEmpty(t, err.Hint)
		})
	}
}

func TestParse_EndOfFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		code    int
		message string
	}{
		{"unclosed object", "a {", CodeExpectedEOF, "Expected '}' but found End-of-File"},
		{"unclosed map", "m {% a = 1", CodeExpectedEOF, "Expected '%}' but found End-of-File"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.input)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Nil(t, err.Token)
		})
	}
}

func TestParse_TokenStreamWithoutBreaks(t *testing.T) {
	_, tokens, errs := Lex("a = (1,")
	require.Empty(t, errs)
	// Drop the trailing Break to reach the end of the stream mid-tuple.
	_, err := NewParser(tokens[:len(tokens)-1]).ParseDocument()
	require.NotNil(t, err)
	assert.Equal(t, CodeUnexpectedEOF, err.Code)

	_, tokens, _ = Lex("a")
	_, err = NewParser(tokens[:1]).ParseDocument()
	require.NotNil(t, err)
	assert.Equal(t, CodeLookaheadEOF, err.Code)
}

func TestParse_LexicalErrorsSurfaceTogether(t *testing.T) {
	_, err := Parse("a = 99999999999999999999\nb = 1.\n")
	se, ok := AsSourceError(err)
	require.True(t, ok)
	require.Len(t, se.Errors, 2)
	assert.Equal(t, CodeIntRange, se.Errors[0].Code)
	assert.Equal(t, CodeBadFloat, se.Errors[1].Code)
	assert.Contains(t, err.Error(), "(and 1 more)")
}

func TestParse_IndependentCalls(t *testing.T) {
	first := parseOK(t, "a { x = 1 }")
	second := parseOK(t, "a { x = 1 }")
	entry(t, first, "a").Props.Set("y", core.Int(2))
	assert.Equal(t, 1, entry(t, second, "a").Props.Len())
}
