package lsp

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/parser"
)

// diagnosticSource identifies this server in published diagnostics.
const diagnosticSource = "jacl"

// publishDiagnostics publishes the lexer or parser errors of a document.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := toDiagnostics(doc.Errors)
	diagnostics = append(diagnostics, unresolvedKeyHints(doc)...)

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// toDiagnostics maps parser errors to LSP diagnostics. Errors without a
// token are reported at the start of the document.
func toDiagnostics(errs []*parser.Error) []Diagnostic {
	diagnostics := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		var r Range
		if e.Token != nil {
			r = tokenRange(*e.Token)
		}
		msg := e.Message
		if e.Hint != "" {
			msg += "\nHint: " + e.Hint
		}
		diagnostics = append(diagnostics, Diagnostic{
			Range:    r,
			Severity: DiagnosticSeverityError,
			Code:     fmt.Sprintf("E%d", e.Code),
			Source:   diagnosticSource,
			Message:  msg,
		})
	}
	return diagnostics
}

// unresolvedKeyHints flags Key values at the root that name no root entry
// when a similarly spelled entry exists.
func unresolvedKeyHints(doc *Document) []Diagnostic {
	if doc.Root == nil || doc.Root.Entries.Len() == 0 {
		return nil
	}
	candidates := make([]string, 0, doc.Root.Entries.Len())
	for name := range doc.Root.Entries.All() {
		if !core.IsAnonymous(name) {
			candidates = append(candidates, name)
		}
	}

	var diagnostics []Diagnostic
	for name, v := range doc.Root.Props.All() {
		if v.Kind != core.ValueKey || doc.Root.Entries.Has(v.Text) {
			continue
		}
		suggestions := suggestSimilar(v.Text, candidates, 2)
		if len(suggestions) == 0 {
			continue
		}
		idx := findValueToken(doc, name, v.Text)
		if idx < 0 {
			continue
		}
		diagnostics = append(diagnostics, Diagnostic{
			Range:    tokenRange(doc.Tokens[idx]),
			Severity: DiagnosticSeverityHint,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("%s does not name an entry. Did you mean '%s'?", v.Text, suggestions[0]),
		})
	}
	return diagnostics
}

// suggestSimilar finds similar strings using Levenshtein distance.
func suggestSimilar(input string, candidates []string, maxDistance int) []string {
	inputLower := strings.ToLower(input)
	var suggestions []string

	for _, candidate := range candidates {
		dist := levenshtein(inputLower, strings.ToLower(candidate))
		if dist <= maxDistance && dist > 0 {
			suggestions = append(suggestions, candidate)
		}
	}

	return suggestions
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}
