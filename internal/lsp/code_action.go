package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/jacl/pkg/parser"
)

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: -32602, Message: err.Error()})
		return err
	}

	actions := s.getCodeActions(params)
	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// getCodeActions returns quick fixes for the lexical diagnostics that have
// a mechanical fix.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return actions
	}

	for _, diag := range params.Context.Diagnostics {
		if diag.Source != diagnosticSource {
			continue
		}
		title, edit, ok := quickFix(doc, diag)
		if !ok {
			continue
		}
		actions = append(actions, CodeAction{
			Title:       title,
			Kind:        CodeActionKindQuickFix,
			Diagnostics: []Diagnostic{diag},
			IsPreferred: true,
			Edit: &WorkspaceEdit{
				Changes: map[string][]TextEdit{params.TextDocument.URI: {edit}},
			},
		})
	}
	return actions
}

// quickFix derives the fix for a diagnostic from its code and range.
func quickFix(doc *Document, diag Diagnostic) (string, TextEdit, bool) {
	switch diag.Code {
	case fmt.Sprintf("E%d", parser.CodeUnterminated):
		end := doc.OffsetToPosition(len(doc.Content))
		return `Add closing '"'`, TextEdit{Range: Range{Start: end, End: end}, NewText: `"`}, true
	case fmt.Sprintf("E%d", parser.CodeBadPct), fmt.Sprintf("E%d", parser.CodePctLineBreak):
		at := diag.Range.Start
		at.Character++
		return "Close map with '%}'", TextEdit{Range: Range{Start: at, End: at}, NewText: "}"}, true
	case fmt.Sprintf("E%d", parser.CodeBadChar):
		return "Remove character", TextEdit{Range: diag.Range, NewText: ""}, true
	}
	return "", TextEdit{}, false
}
