package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/jacl/pkg/token"
)

// Diagnostic codes. Lexical faults are 1xx below 150, parse faults 150 and up.
const (
	CodeInternal = 1

	CodeIntRange       = 100
	CodeBadFloat       = 101
	CodeBadChar        = 102
	CodeBadPct         = 103
	CodePctLineBreak   = 104
	CodeUnterminated   = 105
	CodeExpected       = 150
	CodeExpectedEOF    = 151
	CodeUnmatched      = 152
	CodeExpectedStruct = 153
	CodeUnexpectedEOF  = 154
	CodeLookaheadEOF   = 155
	CodeMapEntry       = 156
	CodeTableBinding   = 157
	CodeExpectedValue  = 158
	CodeDefinedMap     = 159
	CodeDefinedTable   = 160
	CodeDefinedObject  = 161
	CodeNoNewData      = 162
	CodeBindingList    = 163
	CodeTupleSyntax    = 164
	CodeTupleStruct    = 165
	CodeWildcard       = 166
	CodePropertyEntry  = 167
)

// Error is a diagnostic produced by the lexer or parser.
// Token and Hint are optional; when both are set the rendered form points at
// the offending source.
type Error struct {
	Code    int
	Message string
	Token   *token.Token
	Hint    string
}

func newError(code int, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func newTokenError(code int, msg string, tok token.Token, hint string) *Error {
	return &Error{Code: code, Message: msg, Token: &tok, Hint: hint}
}

func (e *Error) Error() string {
	if e.Token != nil {
		return fmt.Sprintf("[E%d] %s (line %d, column %d)", e.Code, e.Message, e.Token.Pos.Line, e.Token.Pos.Column)
	}
	return fmt.Sprintf("[E%d] %s", e.Code, e.Message)
}

// IsLexical reports whether the error came from the lexer.
func (e *Error) IsLexical() bool {
	return e.Code >= CodeIntRange && e.Code < CodeExpected
}

// Render formats the error against the source it was produced from:
//
//	[E157] Tables cannot contain Bindings
//	1  | t [ k = 1 ]
//	           ^
//	Hint: Remove this entry
//
// Every line ends in a newline.
func (e *Error) Render(src string, lines token.LineIndex) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[E%d] %s\n", e.Code, e.Message)
	if e.Token == nil || e.Hint == "" {
		return b.String()
	}

	tok := e.Token
	text, _ := lines.Text(src, tok.Pos.Line)
	fmt.Fprintf(&b, "%-3d| %s\n", tok.Pos.Line, text)

	// Keep the caret run inside the displayed line.
	n := tok.Len
	if room := utf8.RuneCountInString(text) - tok.Pos.Column + 1; n > room {
		n = room
	}
	if n < 1 {
		n = 1
	}
	b.WriteString(strings.Repeat(" ", 4+tok.Pos.Column))
	b.WriteString(strings.Repeat("^", n))
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Hint: %s\n", e.Hint)
	return b.String()
}

// SourceError carries the diagnostics of a failed parse together with the
// source text and line index needed to render them.
// A lexing failure carries every lexical error; a parse failure carries one.
type SourceError struct {
	Errors []*Error
	Source string
	Lines  token.LineIndex
}

func (e *SourceError) Error() string {
	if len(e.Errors) == 0 {
		return "parse failed"
	}
	msg := e.Errors[0].Error()
	if n := len(e.Errors) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Unwrap exposes the individual diagnostics to errors.Is and errors.As.
func (e *SourceError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// Render formats every diagnostic in order.
func (e *SourceError) Render() string {
	var b strings.Builder
	for _, err := range e.Errors {
		b.WriteString(err.Render(e.Source, e.Lines))
	}
	return b.String()
}

// AsSourceError unwraps err into a *SourceError if it holds one.
func AsSourceError(err error) (*SourceError, bool) {
	var se *SourceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
