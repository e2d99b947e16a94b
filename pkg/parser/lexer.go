package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/jacl/pkg/token"
)

// eof is the virtual character processed after the last real one so that
// an open token and the final Break are always flushed.
const eof rune = -1

type lexState int

const (
	stateNeutral lexState = iota
	stateBare
	stateFloat
	stateString
	stateStringEscaped
	stateSeenBrace
	stateSeenPct
	stateUnrecoverable
)

// Lexer converts JACL source into tokens and a line index.
type Lexer struct {
	input string
	state lexState

	tokens []token.Token
	errors []*Error
	lines  token.LineIndex

	line      int // current line (1-based)
	col       int // current column (1-based, in characters)
	lineStart int // byte offset where the current line begins

	start   token.Position  // start of the token being accumulated
	strBody strings.Builder // unescaped string contents
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Lex tokenizes src. The line index is always returned; exactly one of the
// token slice and the error slice is non-nil.
func Lex(src string) (token.LineIndex, []token.Token, []*Error) {
	return NewLexer(src).Run()
}

// Run consumes the whole input.
func (l *Lexer) Run() (token.LineIndex, []token.Token, []*Error) {
	for off, c := range l.input {
		l.step(off, c, utf8.RuneLen(c))
	}
	l.step(len(l.input), eof, 0)

	if len(l.errors) > 0 {
		return l.lines, nil, l.errors
	}
	if l.tokens == nil {
		l.tokens = []token.Token{}
	}
	return l.lines, l.tokens, nil
}

// step advances the automaton by one character at byte offset off.
func (l *Lexer) step(off int, c rune, width int) {
	// Close barewords, numbers and '{' when c cannot continue them.
	switch l.state {
	case stateBare:
		if !isBareChar(c) {
			l.endBare(off, c)
		}
	case stateFloat:
		if !isDigit(c) {
			l.endFloat(off)
		}
	case stateSeenBrace:
		if c != '%' {
			l.emit(token.LBRACE, off, "{")
			l.state = stateNeutral
		}
	}

	switch l.state {
	case stateNeutral:
		l.start = token.Position{Line: l.line, Column: l.col, Offset: off}
		l.dispatch(off, c, width)

	case stateString:
		switch c {
		case eof:
			l.unterminated(off)
		case '"':
			l.emitString(off + width)
			l.state = stateNeutral
		case '\\':
			l.state = stateStringEscaped
		default:
			l.strBody.WriteRune(c)
		}

	case stateStringEscaped:
		if c == eof {
			l.unterminated(off)
			break
		}
		l.strBody.WriteRune(c)
		l.state = stateString

	case stateSeenBrace:
		l.emit(token.LBRACE_PCT, off+width, "{%")
		l.state = stateNeutral

	case stateSeenPct:
		switch c {
		case '}':
			l.emit(token.RBRACE_PCT, off+width, "%}")
			l.state = stateNeutral
		case '\n', '\r':
			l.fail(CodePctLineBreak, "'%' followed by a line break", l.start.Offset+1,
				"Put '}' directly after '%' to close the map")
		default:
			l.fail(CodeBadPct, "'%' not followed by '}'", l.start.Offset+1,
				"Close maps with '%}'")
		}
	}

	// Line accounting.
	switch c {
	case '\n', eof:
		l.lines = append(l.lines, token.LineSpan{Start: l.lineStart, End: off + width})
		if l.state == stateNeutral {
			l.start = token.Position{Line: l.line, Column: l.col, Offset: off}
			l.emit(token.BREAK, off+width, l.input[off:off+width])
		}
		l.line++
		l.col = 1
		l.lineStart = off + width
	case '\r':
	default:
		l.col++
	}
}

// dispatch handles a character seen in the neutral state.
func (l *Lexer) dispatch(off int, c rune, width int) {
	if c == eof {
		return
	}
	if typ, ok := token.LookupSymbol(c); ok {
		l.emit(typ, off+width, string(c))
		return
	}
	switch {
	case c == '{':
		l.state = stateSeenBrace
	case c == '%':
		l.state = stateSeenPct
	case c == '"':
		l.strBody.Reset()
		l.state = stateString
	case isBareChar(c):
		l.state = stateBare
	case unicode.IsSpace(c):
	default:
		l.fail(CodeBadChar, fmt.Sprintf("Unrecognised character %q", c), off+width,
			"Remove this character")
	}
}

// endBare classifies the bareword ending at off. A run of ASCII digits
// followed by '.' continues as a float.
func (l *Lexer) endBare(off int, next rune) {
	text := l.input[l.start.Offset:off]
	if !allDigits(text) {
		switch text {
		case "true", "false":
			tok := l.token(token.BOOLEAN, off, text)
			tok.Bool = text == "true"
			l.tokens = append(l.tokens, tok)
		default:
			l.emit(token.NAME, off, text)
		}
		l.state = stateNeutral
		return
	}

	if next == '.' {
		l.state = stateFloat
		return
	}
	l.state = stateNeutral
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.fault(CodeIntRange, "Integer literal out of range", off, text,
			"Use a value that fits in a signed 64-bit integer")
		return
	}
	tok := l.token(token.INTEGER, off, text)
	tok.Int = n
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) endFloat(off int) {
	text := l.input[l.start.Offset:off]
	l.state = stateNeutral
	if strings.HasSuffix(text, ".") {
		l.fault(CodeBadFloat, "Invalid float literal", off, text, "Write digits after the '.'")
		return
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		l.fault(CodeBadFloat, "Invalid float literal", off, text, "Use a float within 64-bit range")
		return
	}
	tok := l.token(token.FLOAT, off, text)
	tok.Float = f
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) emitString(end int) {
	tok := l.token(token.STRING, end, l.strBody.String())
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) unterminated(off int) {
	tok := l.token(token.FAULT, off, l.input[l.start.Offset:off])
	l.tokens = append(l.tokens, tok)
	l.errors = append(l.errors, newTokenError(CodeUnterminated, "Unterminated string", tok,
		"Add a closing '\"'"))
	l.state = stateNeutral
}

// token builds a token starting at l.start and ending at byte offset end.
func (l *Lexer) token(typ token.TokenType, end int, literal string) token.Token {
	return token.Token{
		Type:    typ,
		Literal: literal,
		Pos:     l.start,
		Len:     l.charLen(l.start.Offset, end),
		End:     end,
	}
}

func (l *Lexer) emit(typ token.TokenType, end int, literal string) {
	l.tokens = append(l.tokens, l.token(typ, end, literal))
}

// fault records a recoverable error and a Fault token in its place.
func (l *Lexer) fault(code int, msg string, end int, literal, hint string) {
	tok := l.token(token.FAULT, end, literal)
	l.tokens = append(l.tokens, tok)
	l.errors = append(l.errors, newTokenError(code, msg, tok, hint))
}

// fail records an error after which no further tokens are produced.
func (l *Lexer) fail(code int, msg string, end int, hint string) {
	l.fault(code, msg, end, l.input[l.start.Offset:end], hint)
	l.state = stateUnrecoverable
}

// charLen counts the characters in input[start:end] on the token's first line.
func (l *Lexer) charLen(start, end int) int {
	n := 0
	for _, c := range l.input[start:min(end, len(l.input))] {
		if c == '\n' {
			break
		}
		if c != '\r' {
			n++
		}
	}
	return n
}

func isBareChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsNumber(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(rune(s[i])) {
			return false
		}
	}
	return s != ""
}
