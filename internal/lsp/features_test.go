package lsp

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jacl/internal/testutil"
	"github.com/leapstack-labs/jacl/pkg/token"
)

func newTestServer(t *testing.T, vars map[string]any) *Server {
	t.Helper()
	return NewServerWithOptions(strings.NewReader(""), io.Discard, Options{
		Logger: testutil.NewTestLogger(t),
		Vars:   vars,
	})
}

func at(uri string, line, char uint32) TextDocumentPositionParams {
	return TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: line, Character: char},
	}
}

func TestToDiagnostics_LexicalErrorsAreAllReported(t *testing.T) {
	doc := newDocument("file:///x.jacl", "a = 99999999999999999999\nb = 1.\n", 1)
	diags := toDiagnostics(doc.Errors)

	require.Len(t, diags, 2)
	assert.Equal(t, "E100", diags[0].Code)
	assert.Equal(t, Position{Line: 0, Character: 4}, diags[0].Range.Start)
	assert.Equal(t, "E101", diags[1].Code)
	assert.Equal(t, uint32(1), diags[1].Range.Start.Line)
}

func TestUnresolvedKeyHints(t *testing.T) {
	doc := newDocument("file:///x.jacl", "server { }\nref = servr\nok = server\nfree = elsewhere\n", 1)
	require.NotNil(t, doc.Root)

	hints := unresolvedKeyHints(doc)
	require.Len(t, hints, 1, "only misspellings close to an entry are flagged")
	assert.Equal(t, DiagnosticSeverityHint, hints[0].Severity)
	assert.Contains(t, hints[0].Message, "Did you mean 'server'?")
	assert.Equal(t, Range{Start: Position{Line: 1, Character: 6}, End: Position{Line: 1, Character: 11}}, hints[0].Range)
}

func TestHover(t *testing.T) {
	uri := "file:///x.jacl"
	s := newTestServer(t, nil)
	s.documents.Open(uri, "srv [ web { port = 80; on = true } ]\nlink = srv\nv = $env\nf = @lib\nname = \"x\"\n", 1)

	tests := []struct {
		name     string
		line     uint32
		char     uint32
		expected string
	}{
		{"table entry", 0, 0, "**Entry** `srv`: Table"},
		{"object entry", 0, 7, "**Entry** `web`: Object"},
		{"integer", 0, 20, "**Integer** `80`"},
		{"boolean", 0, 29, "**Boolean** `true`"},
		{"key reference", 1, 8, "**Key** `srv` refers to a Table"},
		{"variable", 2, 5, "**Variable** `$env`"},
		{"foreign", 3, 5, "**Foreign** `@lib`"},
		{"string", 4, 8, "**String** `\"x\"`"},
		{"symbol", 1, 5, "`'='`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hover := s.getHover(HoverParams{TextDocumentPositionParams: at(uri, tt.line, tt.char)})
			require.NotNil(t, hover)
			assert.Equal(t, tt.expected, hover.Contents.Value)
		})
	}

	assert.Nil(t, s.getHover(HoverParams{TextDocumentPositionParams: at(uri, 0, 3)}), "whitespace")
	assert.Nil(t, s.getHover(HoverParams{TextDocumentPositionParams: at("file:///missing.jacl", 0, 0)}))
}

func TestDefinition(t *testing.T) {
	uri := "file:///x.jacl"
	s := newTestServer(t, nil)
	s.documents.Open(uri, "a = (b, c)\nb { }\nc\nd = $b\n", 1)

	def := func(line, char uint32) *Location {
		return s.getDefinition(DefinitionParams{TextDocumentPositionParams: at(uri, line, char)})
	}

	loc := def(0, 5)
	require.NotNil(t, loc, "tuple element resolves")
	assert.Equal(t, uint32(1), loc.Range.Start.Line)

	loc = def(0, 8)
	require.NotNil(t, loc)
	assert.Equal(t, Position{Line: 2, Character: 0}, loc.Range.Start, "declared entry")

	loc = def(1, 0)
	require.NotNil(t, loc, "a declaration is its own definition")
	assert.Equal(t, Position{Line: 1, Character: 0}, loc.Range.Start)

	assert.Nil(t, def(3, 5), "variables have no definition")
	assert.Nil(t, def(0, 2), "not a name")
}

func TestCompletion(t *testing.T) {
	uri := "file:///x.jacl"
	s := newTestServer(t, map[string]any{"host": "example.org", "port": 80})
	s.documents.Open(uri, "srv { }\nsub { }\nx = s\ny = $h\nz = t\n", 1)

	labels := func(line, char uint32) []string {
		var out []string
		for _, item := range s.getCompletions(CompletionParams{TextDocumentPositionParams: at(uri, line, char)}) {
			out = append(out, item.Label)
		}
		return out
	}

	assert.Equal(t, []string{"srv", "sub"}, labels(2, 5))
	assert.Equal(t, []string{"host"}, labels(3, 6))
	assert.Equal(t, []string{"true"}, labels(4, 5))

	items := s.getCompletions(CompletionParams{TextDocumentPositionParams: at(uri, 3, 6)})
	require.Len(t, items, 1)
	assert.Equal(t, CompletionItemKindVariable, items[0].Kind)
	assert.Equal(t, "example.org", items[0].Detail)
}

func TestDocumentSymbols(t *testing.T) {
	uri := "file:///x.jacl"
	s := newTestServer(t, nil)
	s.documents.Open(uri, "name = \"app\"\nsrv [ web { port = 80 } ]\nlater\nm {% k = 1 %}\nanon = { inner = 1 }\n", 1)

	symbols := s.getDocumentSymbols(DocumentSymbolParams{TextDocument: TextDocumentIdentifier{URI: uri}})

	names := make([]string, len(symbols))
	for i, sym := range symbols {
		names[i] = sym.Name
	}
	assert.Equal(t, []string{"name", "anon", "srv", "later", "m", "inner"}, names)

	srv := symbols[2]
	assert.Equal(t, SymbolKindArray, srv.Kind)
	assert.Equal(t, Position{Line: 1, Character: 0}, srv.Range.Start)
	require.Len(t, srv.Children, 1)
	web := srv.Children[0]
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, SymbolKindStruct, web.Kind)
	require.Len(t, web.Children, 1)
	assert.Equal(t, "port", web.Children[0].Name)
	assert.Equal(t, "80", web.Children[0].Detail)

	assert.Equal(t, SymbolKindVariable, symbols[3].Kind)
	assert.Equal(t, SymbolKindObject, symbols[4].Kind)

	broken := "file:///broken.jacl"
	s.documents.Open(broken, "a = (", 1)
	assert.Empty(t, s.getDocumentSymbols(DocumentSymbolParams{TextDocument: TextDocumentIdentifier{URI: broken}}))
}

func TestCodeActions(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
		wantEdit  TextEdit
	}{
		{
			name:      "unterminated string",
			content:   "a = \"open",
			wantTitle: `Add closing '"'`,
			wantEdit:  TextEdit{Range: Range{Start: Position{Line: 0, Character: 9}, End: Position{Line: 0, Character: 9}}, NewText: `"`},
		},
		{
			name:      "percent without brace",
			content:   "m {% a = 1 % ",
			wantTitle: "Close map with '%}'",
			wantEdit:  TextEdit{Range: Range{Start: Position{Line: 0, Character: 12}, End: Position{Line: 0, Character: 12}}, NewText: "}"},
		},
		{
			name:      "unrecognised character",
			content:   "a = 1 ^",
			wantTitle: "Remove character",
			wantEdit:  TextEdit{Range: Range{Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 7}}, NewText: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := "file:///x.jacl"
			s := newTestServer(t, nil)
			doc := s.documents.Open(uri, tt.content, 1)
			diags := toDiagnostics(doc.Errors)
			require.Len(t, diags, 1)

			actions := s.getCodeActions(CodeActionParams{
				TextDocument: TextDocumentIdentifier{URI: uri},
				Context:      CodeActionContext{Diagnostics: diags},
			})
			require.Len(t, actions, 1)
			assert.Equal(t, tt.wantTitle, actions[0].Title)
			assert.Equal(t, CodeActionKindQuickFix, actions[0].Kind)
			assert.Equal(t, []TextEdit{tt.wantEdit}, actions[0].Edit.Changes[uri])
		})
	}
}

func TestCodeActions_NoFix(t *testing.T) {
	uri := "file:///x.jacl"
	s := newTestServer(t, nil)
	doc := s.documents.Open(uri, "a = 1\n]", 1)

	actions := s.getCodeActions(CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Context:      CodeActionContext{Diagnostics: toDiagnostics(doc.Errors)},
	})
	assert.Empty(t, actions)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"server", "servr", 1},
		{"größe", "grösse", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, levenshtein(tt.s1, tt.s2), "levenshtein(%q, %q)", tt.s1, tt.s2)
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"server", "service", "client"}
	assert.Equal(t, []string{"server"}, suggestSimilar("servr", candidates, 1))
	assert.Equal(t, []string{"server", "service"}, suggestSimilar("servie", candidates, 2))
	assert.Empty(t, suggestSimilar("server", []string{"server"}, 2), "exact matches are not suggestions")
}

func TestIsDeclaration(t *testing.T) {
	doc := newDocument("file:///x.jacl", "a, b = c, (d, e)\nf { g = h }", 1)
	declared := map[string]bool{}
	for i, tok := range doc.Tokens {
		if tok.Type == token.NAME {
			declared[tok.Literal] = isDeclaration(doc.Tokens, i)
		}
	}
	assert.Equal(t, map[string]bool{
		"a": true, "b": true, "c": false, "d": false, "e": false,
		"f": true, "g": true, "h": false,
	}, declared)
}
