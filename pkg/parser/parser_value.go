package parser

// Binding productions. Bindings write properties and are illegal in Tables:
//
//	binding    → Name ("," Name)* "=" rhs
//	rhs        → struct | value
//
// A structure on the right-hand side becomes an anonymous entry and every
// bound name receives a Key property naming it. Maps hold no entries, so a
// structure cannot be bound inside a Map.
//
//	value      → Name                      Key
//	           | "$" Name                  Var
//	           | "@" Name                  Foreign
//	           | String | Boolean
//	           | ["-"] Integer | ["-"] Float
//	           | "(" value ("," value)* ")" Tuple

import (
	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/token"
)

// parseSingleBinding parses `name = rhs`.
func (p *Parser) parseSingleBinding(st *core.Struct) *Error {
	name, _ := p.cur()
	p.advance()
	return p.parseRHS(st, []token.Token{name})
}

// parseMultipleBinding parses `a, b, c = rhs`.
func (p *Parser) parseMultipleBinding(st *core.Struct) *Error {
	var names []token.Token
	for {
		name, err := p.expect(token.NAME, "name")
		if err != nil {
			return err
		}
		names = append(names, name)

		tok, err := p.curExpect()
		if err != nil {
			return err
		}
		if tok.Type == token.EQUALS {
			break
		}
		if tok.Type != token.COMMA {
			return newTokenError(CodeBindingList, "Expected '=' or ','", tok, "Could not parse this token")
		}
		p.advance()
	}
	return p.parseRHS(st, names)
}

// parseRHS parses the right-hand side of a binding and stores it under names.
func (p *Parser) parseRHS(st *core.Struct, names []token.Token) *Error {
	eq, err := p.expect(token.EQUALS, "'='")
	if err != nil {
		return err
	}
	start, err := p.curExpect()
	if err != nil {
		return err
	}

	if token.IsOpen(start.Type) {
		body, err := p.parseStruct()
		if err != nil {
			return err
		}
		switch st.Kind {
		case core.StructTable:
			return newTokenError(CodeTableBinding, "Tables cannot contain Bindings", eq, "Remove this entry")
		case core.StructMap:
			return newTokenError(CodeMapEntry, "Maps cannot contain Entries", start, "Remove this entry")
		}
		anon, aerr := st.AddAnonymous(body)
		if aerr != nil {
			return newError(CodeInternal, "Internal error: "+aerr.Error())
		}
		return bindAll(st, names, core.Key(anon))
	}

	v, err := p.parseValue()
	if err != nil {
		return err
	}
	if st.Kind == core.StructTable {
		return newTokenError(CodeTableBinding, "Tables cannot contain Bindings", eq, "Remove this entry")
	}
	return bindAll(st, names, v)
}

func bindAll(st *core.Struct, names []token.Token, v core.Value) *Error {
	for _, name := range names {
		if err := st.SetProp(name.Literal, v.Clone()); err != nil {
			return newError(CodeInternal, "Internal error: "+err.Error())
		}
	}
	return nil
}

// parseValue parses a scalar value.
func (p *Parser) parseValue() (core.Value, *Error) {
	tok, err := p.curExpect()
	if err != nil {
		return core.Value{}, err
	}

	switch tok.Type {
	case token.NAME:
		p.advance()
		return core.Key(tok.Literal), nil
	case token.DOLLAR, token.AT:
		p.advance()
		name, err := p.expect(token.NAME, "name")
		if err != nil {
			return core.Value{}, err
		}
		if tok.Type == token.DOLLAR {
			return core.Var(name.Literal), nil
		}
		return core.Foreign(name.Literal), nil
	case token.STRING:
		p.advance()
		return core.Str(tok.Literal), nil
	case token.INTEGER:
		p.advance()
		return core.Int(tok.Int), nil
	case token.FLOAT:
		p.advance()
		return core.Float(tok.Float), nil
	case token.BOOLEAN:
		p.advance()
		return core.Bool(tok.Bool), nil
	case token.MINUS:
		return p.parseNegative()
	case token.LPAREN:
		return p.parseTuple()
	default:
		return core.Value{}, newTokenError(CodeExpectedValue, "Expected Value", tok, "Make this a value")
	}
}

// parseNegative parses '-' followed directly by a number.
func (p *Parser) parseNegative() (core.Value, *Error) {
	p.advance()
	tok, err := p.curExpect()
	if err != nil {
		return core.Value{}, err
	}
	switch tok.Type {
	case token.INTEGER:
		p.advance()
		return core.Int(-tok.Int), nil
	case token.FLOAT:
		p.advance()
		return core.Float(-tok.Float), nil
	default:
		return core.Value{}, newTokenError(CodeExpected, "Expected number", tok, "Only numbers can be negated")
	}
}

// parseTuple parses a parenthesized, comma-separated list of values.
func (p *Parser) parseTuple() (core.Value, *Error) {
	p.advance()
	var items []core.Value
	for {
		tok, err := p.curExpect()
		if err != nil {
			return core.Value{}, err
		}
		if token.IsOpen(tok.Type) {
			return core.Value{}, newTokenError(CodeTupleStruct, "Tuples cannot contain Structures", tok,
				"Bind the structure to a name and put the name in the tuple")
		}
		v, perr := p.parseValue()
		if perr != nil {
			return core.Value{}, perr
		}
		items = append(items, v)

		tok, err = p.curExpect()
		if err != nil {
			return core.Value{}, err
		}
		switch tok.Type {
		case token.RPAREN:
			p.advance()
			return core.Tuple(items...), nil
		case token.COMMA:
			p.advance()
		default:
			return core.Value{}, newTokenError(CodeTupleSyntax, "Invalid syntax inside tuple", tok, "Expected ',' or ')'")
		}
	}
}
