package parser

// Entry productions. Entries hold nested structures and are only legal in
// Objects and Tables:
//
//	entry      → Name struct
//	compound   → Name ("+" Name)+ struct
//	empty      → Name Break
//	anonymous  → struct
//
// A second definition of a name is merged into the first (see core.Merge).

import (
	"errors"

	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/token"
)

// rejectInMap fails with the Maps-cannot-contain-Entries error when st is a Map.
func (p *Parser) rejectInMap(st *core.Struct) *Error {
	if st.HasEntries() {
		return nil
	}
	tok, err := p.curExpect()
	if err != nil {
		return err
	}
	return newTokenError(CodeMapEntry, "Maps cannot contain Entries", tok, "Remove this entry")
}

// parseSingleEntry parses `name { ... }`.
func (p *Parser) parseSingleEntry(st *core.Struct) *Error {
	if err := p.rejectInMap(st); err != nil {
		return err
	}
	name, _ := p.cur()
	p.advance()
	body, err := p.parseStruct()
	if err != nil {
		return err
	}
	return define(st, name, body)
}

// parseCompoundEntry parses `a + b + c { ... }`, giving every name its own
// copy of the body.
func (p *Parser) parseCompoundEntry(st *core.Struct) *Error {
	if err := p.rejectInMap(st); err != nil {
		return err
	}
	var names []token.Token
	for {
		name, err := p.expect(token.NAME, "name")
		if err != nil {
			return err
		}
		names = append(names, name)
		if !p.check(token.PLUS) {
			break
		}
		p.advance()
	}

	body, err := p.parseStruct()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := define(st, name, body.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// parseEmptyEntry parses a name standing alone on its statement.
func (p *Parser) parseEmptyEntry(st *core.Struct) *Error {
	if err := p.rejectInMap(st); err != nil {
		return err
	}
	name, _ := p.cur()
	p.advance()
	if err := st.Declare(name.Literal); err != nil {
		return mergeDiagnostic(err, name)
	}
	return nil
}

// parseAnonEntry parses a structure literal with no name.
func (p *Parser) parseAnonEntry(st *core.Struct) *Error {
	if err := p.rejectInMap(st); err != nil {
		return err
	}
	body, err := p.parseStruct()
	if err != nil {
		return err
	}
	if _, aerr := st.AddAnonymous(body); aerr != nil {
		return newError(CodeInternal, "Internal error: "+aerr.Error())
	}
	return nil
}

// define files body under name, reporting conflicts against the name token.
func define(st *core.Struct, name token.Token, body *core.Struct) *Error {
	if err := st.Define(name.Literal, body); err != nil {
		return mergeDiagnostic(err, name)
	}
	return nil
}

// mergeDiagnostic converts a core.MergeError into its diagnostic.
func mergeDiagnostic(err error, name token.Token) *Error {
	var me *core.MergeError
	if !errors.As(err, &me) {
		return newError(CodeInternal, "Internal error: "+err.Error())
	}
	if me.Empty {
		return newTokenError(CodeNoNewData, me.Error(), name, "Remove this redefinition")
	}
	switch me.Existing {
	case core.StructMap:
		return newTokenError(CodeDefinedMap, me.Error(), name, "Make this entry a Map")
	case core.StructTable:
		return newTokenError(CodeDefinedTable, me.Error(), name, "Make this entry a Table")
	default:
		return newTokenError(CodeDefinedObject, me.Error(), name, "Make this entry an Object")
	}
}
