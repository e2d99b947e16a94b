// Package parser turns JACL source text into a core.Struct tree.
//
// # Usage
//
//	root, err := parser.Parse(src)
//	if se, ok := parser.AsSourceError(err); ok {
//	    fmt.Print(se.Render())
//	}
//
// Lexing collects every lexical error in one pass. Parsing stops at the
// first error.
//
// # Grammar Overview
//
//	document   → body
//	body       → { Break | item }
//	item       → Name ("," Name)* "=" rhs          binding
//	           | Name ("+" Name)* struct           entry (compound when joined by '+')
//	           | Name Break                        declared-empty entry
//	           | struct                            anonymous entry
//	rhs        → struct | value
//	struct     → "{" body "}" | "[" body "]" | "{%" body "%}"
//	value      → Name | "$" Name | "@" Name | String | ["-"] (Integer | Float)
//	           | Boolean | "(" value ("," value)* ")"
//
// See parser_entry.go and parser_value.go for the rules of each production.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/token"
)

// Parser consumes a token sequence produced by the Lexer.
type Parser struct {
	tokens []token.Token
	pos    int
}

// NewParser creates a parser over tokens.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes and parses src into its root Object. On failure the error is a
// *SourceError holding the diagnostics, the source and its line index.
func Parse(src string) (*core.Struct, error) {
	lines, tokens, errs := Lex(src)
	if len(errs) > 0 {
		return nil, &SourceError{Errors: errs, Source: src, Lines: lines}
	}
	root, perr := NewParser(tokens).ParseDocument()
	if perr != nil {
		return nil, &SourceError{Errors: []*Error{perr}, Source: src, Lines: lines}
	}
	return root, nil
}

// ParseDocument parses the whole token sequence as the body of an Object.
func (p *Parser) ParseDocument() (*core.Struct, *Error) {
	root := core.NewObject()
	if err := p.parseInner(root, true); err != nil {
		return nil, err
	}
	return root, nil
}

// ---------- Token Helpers ----------

// cur returns the current token, or false at end of input.
func (p *Parser) cur() (token.Token, bool) {
	return p.peek(0)
}

// peek returns the token n places after the current one.
func (p *Parser) peek(n int) (token.Token, bool) {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i], true
	}
	return token.Token{}, false
}

// curExpect returns the current token or an end-of-file error.
func (p *Parser) curExpect() (token.Token, *Error) {
	tok, ok := p.cur()
	if !ok {
		return tok, newError(CodeUnexpectedEOF, "Unexpected End-of-file")
	}
	return tok, nil
}

// peekExpect returns the token n places ahead or an end-of-file error.
func (p *Parser) peekExpect(n int) (token.Token, *Error) {
	tok, ok := p.peek(n)
	if !ok {
		return tok, newError(CodeLookaheadEOF, "Unexpected End-of-file")
	}
	return tok, nil
}

// advance moves past the current token.
func (p *Parser) advance() {
	p.pos++
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	tok, ok := p.cur()
	return ok && tok.Type == t
}

// expect consumes the current token if it has type t.
// what names the expected token in the error message.
func (p *Parser) expect(t token.TokenType, what string) (token.Token, *Error) {
	tok, ok := p.cur()
	if !ok {
		return tok, newError(CodeExpectedEOF, fmt.Sprintf("Expected %s but found End-of-File", what))
	}
	if tok.Type != t {
		return tok, newTokenError(CodeExpected, fmt.Sprintf("Expected %s", what), tok,
			fmt.Sprintf("Found %s", tok))
	}
	p.advance()
	return tok, nil
}

// skipBreaks consumes any run of Break tokens.
func (p *Parser) skipBreaks() {
	for p.check(token.BREAK) {
		p.advance()
	}
}

// ---------- Structures ----------

// parseInner parses body items into st until a closing delimiter or end of
// input. At the document root a closing delimiter has nothing to match.
func (p *Parser) parseInner(st *core.Struct, root bool) *Error {
	for {
		p.skipBreaks()
		tok, ok := p.cur()
		if !ok {
			return nil
		}
		if token.IsClose(tok.Type) {
			if root {
				return newTokenError(CodeUnmatched, "Unmatched closing delimiter", tok,
					"Remove this delimiter")
			}
			return nil
		}

		var err *Error
		if tok.Type == token.NAME {
			err = p.parseNamedItem(st)
		} else {
			err = p.parseAnonEntry(st)
		}
		if err != nil {
			return err
		}
	}
}

// parseNamedItem selects a production from the token after a Name.
func (p *Parser) parseNamedItem(st *core.Struct) *Error {
	next, err := p.peekExpect(1)
	if err != nil {
		return err
	}
	switch next.Type {
	case token.COMMA:
		return p.parseMultipleBinding(st)
	case token.EQUALS:
		return p.parseSingleBinding(st)
	case token.PLUS:
		return p.parseCompoundEntry(st)
	case token.BREAK:
		return p.parseEmptyEntry(st)
	case token.STAR:
		return newTokenError(CodeWildcard, "Wildcard entries are not supported", next,
			"Name each entry explicitly")
	case token.DOLLAR:
		return newTokenError(CodePropertyEntry, "Property entries are not supported", next,
			"Bind the variable with '=' instead")
	default:
		return p.parseSingleEntry(st)
	}
}

// parseStruct parses a structure literal of any variant.
func (p *Parser) parseStruct() (*core.Struct, *Error) {
	tok, err := p.curExpect()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case token.LBRACE:
		return p.parseBody(core.NewObject(), token.RBRACE, "'}'")
	case token.LBRACKET:
		return p.parseBody(core.NewTable(), token.RBRACKET, "']'")
	case token.LBRACE_PCT:
		return p.parseBody(core.NewMap(), token.RBRACE_PCT, "'%}'")
	default:
		return nil, newTokenError(CodeExpectedStruct, "Expected Struct", tok,
			fmt.Sprintf("Found %s", tok))
	}
}

// parseBody consumes the opening delimiter, the items and the closer.
func (p *Parser) parseBody(st *core.Struct, closer token.TokenType, what string) (*core.Struct, *Error) {
	p.advance()
	if err := p.parseInner(st, false); err != nil {
		return nil, err
	}
	if _, err := p.expect(closer, what); err != nil {
		return nil, err
	}
	return st, nil
}
