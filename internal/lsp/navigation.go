package lsp

import (
	"github.com/leapstack-labs/jacl/pkg/token"
)

// isDeclaration reports whether the Name token at i introduces an entry or a
// property rather than referring to one. References appear after '=' or
// inside a tuple.
func isDeclaration(tokens []token.Token, i int) bool {
	if tokens[i].Type != token.NAME {
		return false
	}
	depth := 0
	for j := i - 1; j >= 0; j-- {
		switch tokens[j].Type {
		case token.RPAREN:
			depth++
		case token.LPAREN:
			if depth == 0 {
				return false
			}
			depth--
		case token.EQUALS:
			if depth == 0 {
				return false
			}
		case token.BREAK, token.LBRACE, token.LBRACKET, token.LBRACE_PCT,
			token.RBRACE, token.RBRACKET, token.RBRACE_PCT:
			if depth == 0 {
				return true
			}
		}
	}
	return true
}

// findDeclaration returns the first declaration of name at or after the
// byte offset from, or -1.
func findDeclaration(tokens []token.Token, name string, from int) int {
	for i, tok := range tokens {
		if tok.Pos.Offset < from || tok.Type != token.NAME || tok.Literal != name {
			continue
		}
		if isDeclaration(tokens, i) {
			return i
		}
	}
	return -1
}

// findValueToken locates the Name token bound to prop at brace depth zero.
func findValueToken(doc *Document, prop, value string) int {
	tokens := doc.Tokens
	depth := 0
	for i := 0; i+2 < len(tokens); i++ {
		switch {
		case token.IsOpen(tokens[i].Type):
			depth++
		case token.IsClose(tokens[i].Type):
			depth--
		}
		if depth != 0 {
			continue
		}
		if tokens[i].Type == token.NAME && tokens[i].Literal == prop &&
			tokens[i+1].Type == token.EQUALS &&
			tokens[i+2].Type == token.NAME && tokens[i+2].Literal == value {
			return i + 2
		}
	}
	return -1
}
