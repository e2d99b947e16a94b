// Package token defines the lexical vocabulary of JACL documents.
//
// Tokens carry their classified value alongside the source span they were
// read from, so diagnostics can point back at the exact bytes and columns.
package token

import "fmt"

// TokenType represents the kind of a lexical token.
//
//nolint:revive // token.TokenType reads better than token.Type at call sites
type TokenType int32

const (
	// Special tokens
	ILLEGAL TokenType = iota
	FAULT             // span that failed to classify; paired with a lexical error

	// Literals
	NAME    // identifier bareword
	STRING  // "quoted text"
	INTEGER // 42
	FLOAT   // 4.2
	BOOLEAN // true / false

	// Delimiters
	LBRACE     // {
	RBRACE     // }
	LBRACKET   // [
	RBRACKET   // ]
	LBRACE_PCT // {%
	RBRACE_PCT // %}
	LPAREN     // (
	RPAREN     // )

	// Operators
	EQUALS // =
	COMMA  // ,
	PLUS   // +
	MINUS  // -
	STAR   // *
	DOLLAR // $
	AT     // @

	// Statement separator: a line boundary or ';'
	BREAK
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their display names.
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	FAULT:   "FAULT",

	NAME:    "Name",
	STRING:  "String",
	INTEGER: "Integer",
	FLOAT:   "Float",
	BOOLEAN: "Boolean",

	LBRACE:     "'{'",
	RBRACE:     "'}'",
	LBRACKET:   "'['",
	RBRACKET:   "']'",
	LBRACE_PCT: "'{%'",
	RBRACE_PCT: "'%}'",
	LPAREN:     "'('",
	RPAREN:     "')'",

	EQUALS: "'='",
	COMMA:  "','",
	PLUS:   "'+'",
	MINUS:  "'-'",
	STAR:   "'*'",
	DOLLAR: "'$'",
	AT:     "'@'",

	BREAK: "Break",
}

// symbols maps the single-character symbols that need no lookahead.
// '{' and '%' are absent: both may begin a two-character delimiter.
var symbols = map[rune]TokenType{
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	'(': LPAREN,
	')': RPAREN,
	'=': EQUALS,
	',': COMMA,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'$': DOLLAR,
	'@': AT,
	';': BREAK,
}

// LookupSymbol returns the token type for an unambiguous single-character symbol.
func LookupSymbol(c rune) (TokenType, bool) {
	t, ok := symbols[c]
	return t, ok
}

// IsOpen returns true if the token type opens a structure literal.
func IsOpen(t TokenType) bool {
	return t == LBRACE || t == LBRACKET || t == LBRACE_PCT
}

// IsClose returns true if the token type closes a structure literal.
func IsClose(t TokenType) bool {
	return t == RBRACE || t == RBRACKET || t == RBRACE_PCT
}

// IsLiteral returns true if the token type carries a scalar literal.
func IsLiteral(t TokenType) bool {
	return t >= STRING && t <= BOOLEAN
}

// Token represents a lexical token with its classified value and source span.
type Token struct {
	Type    TokenType
	Literal string // source text; for strings, the unescaped body

	// Classified payload for numeric and boolean literals.
	Int   int64
	Float float64
	Bool  bool

	Pos Position // start of the token (1-based line/column, 0-based byte offset)
	Len int      // length in characters
	End int      // byte offset one past the last byte of the token
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{
		Start: t.Pos,
		End:   Position{Line: t.Pos.Line, Column: t.Pos.Column + t.Len, Offset: t.End},
	}
}

// String renders the token for hints and debugging output.
func (t Token) String() string {
	switch t.Type {
	case NAME:
		return fmt.Sprintf("Name(%s)", t.Literal)
	case STRING:
		return fmt.Sprintf("String(%q)", t.Literal)
	case INTEGER:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case FLOAT:
		return fmt.Sprintf("Float(%g)", t.Float)
	case BOOLEAN:
		return fmt.Sprintf("Boolean(%t)", t.Bool)
	case FAULT:
		return fmt.Sprintf("Fault(%s)", t.Literal)
	default:
		return t.Type.String()
	}
}
