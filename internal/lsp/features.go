package lsp

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/token"
)

// --- Hover ---

func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	idx := doc.TokenAt(params.Position)
	if idx < 0 {
		return nil
	}
	tok := doc.Tokens[idx]
	r := tokenRange(tok)
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: describeToken(doc, idx)},
		Range:    &r,
	}
}

// describeToken renders a short markdown description of the token at idx.
func describeToken(doc *Document, idx int) string {
	tok := doc.Tokens[idx]
	switch tok.Type {
	case token.NAME:
		if idx > 0 {
			switch doc.Tokens[idx-1].Type {
			case token.DOLLAR:
				return fmt.Sprintf("**Variable** `$%s`", tok.Literal)
			case token.AT:
				return fmt.Sprintf("**Foreign** `@%s`", tok.Literal)
			}
		}
		kinds := collectKinds(doc.Root)
		if isDeclaration(doc.Tokens, idx) {
			if kind, ok := kinds[tok.Literal]; ok {
				return fmt.Sprintf("**Entry** `%s`: %s", tok.Literal, kind)
			}
			return fmt.Sprintf("**Name** `%s`", tok.Literal)
		}
		if kind, ok := kinds[tok.Literal]; ok {
			return fmt.Sprintf("**Key** `%s` refers to a %s", tok.Literal, kind)
		}
		return fmt.Sprintf("**Key** `%s`", tok.Literal)
	case token.STRING:
		return fmt.Sprintf("**String** `%q`", tok.Literal)
	case token.INTEGER:
		return fmt.Sprintf("**Integer** `%d`", tok.Int)
	case token.FLOAT:
		return fmt.Sprintf("**Float** `%s`", core.Float(tok.Float))
	case token.BOOLEAN:
		return fmt.Sprintf("**Boolean** `%t`", tok.Bool)
	case token.FAULT:
		return fmt.Sprintf("**Invalid literal** `%s`", tok.Literal)
	default:
		return fmt.Sprintf("`%s`", tok.Type)
	}
}

// collectKinds maps each named entry in the tree to the kind of its first
// definition. Declared entries map to "declared entry".
func collectKinds(root *core.Struct) map[string]string {
	kinds := make(map[string]string)
	var walk func(st *core.Struct)
	walk = func(st *core.Struct) {
		for name, child := range st.Entries.All() {
			if core.IsAnonymous(name) {
				if child != nil {
					walk(child)
				}
				continue
			}
			if _, seen := kinds[name]; !seen {
				if child == nil {
					kinds[name] = "declared entry"
				} else {
					kinds[name] = child.Kind.String()
				}
			}
			if child != nil {
				walk(child)
			}
		}
	}
	if root != nil {
		walk(root)
	}
	return kinds
}

// --- Definition ---

func (s *Server) getDefinition(params DefinitionParams) *Location {
	doc := s.documents.Get(params.TextDocument.URI)
	idx := doc.TokenAt(params.Position)
	if idx < 0 || doc.Tokens[idx].Type != token.NAME {
		return nil
	}
	if idx > 0 {
		if prev := doc.Tokens[idx-1].Type; prev == token.DOLLAR || prev == token.AT {
			return nil
		}
	}
	target := idx
	if !isDeclaration(doc.Tokens, idx) {
		target = findDeclaration(doc.Tokens, doc.Tokens[idx].Literal, 0)
		if target < 0 {
			return nil
		}
	}
	return &Location{URI: doc.URI, Range: tokenRange(doc.Tokens[target])}
}

// --- Completion ---

func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	line := doc.GetLine(int(params.Position.Line))
	before := line
	if n := int(params.Position.Character); n < len([]rune(line)) {
		before = string([]rune(line)[:n])
	}
	prefix := identifierSuffix(before)
	rest := strings.TrimSuffix(before, prefix)

	var items []CompletionItem
	if strings.HasSuffix(rest, "$") {
		for _, name := range sortedKeys(s.vars) {
			if strings.HasPrefix(name, prefix) {
				items = append(items, CompletionItem{
					Label:  name,
					Kind:   CompletionItemKindVariable,
					Detail: fmt.Sprintf("%v", s.vars[name]),
				})
			}
		}
		return items
	}

	kinds := collectKinds(doc.Root)
	for _, name := range sortedKeys(kinds) {
		if strings.HasPrefix(name, prefix) {
			items = append(items, CompletionItem{
				Label:  name,
				Kind:   CompletionItemKindReference,
				Detail: kinds[name],
			})
		}
	}
	for _, kw := range []string{"true", "false"} {
		if strings.HasPrefix(kw, prefix) {
			items = append(items, CompletionItem{Label: kw, Kind: CompletionItemKindKeyword})
		}
	}
	return items
}

// identifierSuffix returns the trailing run of name characters in s.
func identifierSuffix(s string) string {
	runes := []rune(s)
	i := len(runes)
	for i > 0 && isNameRune(runes[i-1]) {
		i--
	}
	return string(runes[i:])
}

func isNameRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsNumber(c)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Document symbols ---

func (s *Server) getDocumentSymbols(params DocumentSymbolParams) []DocumentSymbol {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.Root == nil {
		return []DocumentSymbol{}
	}
	return structSymbols(doc, doc.Root, 0)
}

// structSymbols lists the properties and entries of st. Declarations are
// searched for from the byte offset from onwards.
func structSymbols(doc *Document, st *core.Struct, from int) []DocumentSymbol {
	symbols := []DocumentSymbol{}
	locate := func(name string) (Range, int) {
		if idx := findDeclaration(doc.Tokens, name, from); idx >= 0 {
			return tokenRange(doc.Tokens[idx]), doc.Tokens[idx].Pos.Offset
		}
		return Range{}, from
	}

	for name, v := range st.Props.All() {
		r, _ := locate(name)
		symbols = append(symbols, DocumentSymbol{
			Name:           name,
			Detail:         v.String(),
			Kind:           SymbolKindProperty,
			Range:          r,
			SelectionRange: r,
		})
	}
	for name, child := range st.Entries.All() {
		if core.IsAnonymous(name) {
			if child != nil {
				symbols = append(symbols, structSymbols(doc, child, from)...)
			}
			continue
		}
		r, offset := locate(name)
		sym := DocumentSymbol{Name: name, Range: r, SelectionRange: r}
		if child == nil {
			sym.Kind = SymbolKindVariable
			sym.Detail = "declared"
		} else {
			sym.Kind = symbolKind(child.Kind)
			sym.Detail = child.Kind.String()
			sym.Children = structSymbols(doc, child, offset)
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func symbolKind(k core.StructKind) SymbolKind {
	switch k {
	case core.StructTable:
		return SymbolKindArray
	case core.StructMap:
		return SymbolKindObject
	default:
		return SymbolKindStruct
	}
}
