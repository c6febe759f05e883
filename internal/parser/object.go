package parser

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// parseObject parses one "object at ... implements ... { block* }"
// declaration.
func (p *Parser) parseObject() *ast.ObjectDecl {
	start := p.expect(lexer.OBJECT)
	if len(p.errors) > 0 {
		return nil
	}
	p.expect(lexer.AT_KW)
	pathTok := p.expect(lexer.STRING)

	decl := &ast.ObjectDecl{Position: start.Pos, ObjectPath: pathTok.Literal}

	if p.is(lexer.NAMED) {
		p.advance()
		decl.BusNames = append(decl.BusNames, p.expectDottedName())
		for p.is(lexer.COMMA) {
			p.advance()
			decl.BusNames = append(decl.BusNames, p.expectDottedName())
		}
	}

	p.expect(lexer.IMPLEMENTS)
	decl.InterfaceNames = append(decl.InterfaceNames, p.expectDottedName())
	for p.is(lexer.COMMA) {
		p.advance()
		decl.InterfaceNames = append(decl.InterfaceNames, p.expectDottedName())
	}

	p.expect(lexer.LBRACE)
	for !p.is(lexer.RBRACE) && !p.atEOF() && len(p.errors) == 0 {
		switch p.cur().Type {
		case lexer.DATA:
			decl.DataBlocks = append(decl.DataBlocks, p.parseDataBlock())
		case lexer.STATES:
			decl.StateBlocks = append(decl.StateBlocks, p.parseStatesBlock())
		case lexer.TRANSITION:
			decl.TransitionBlocks = append(decl.TransitionBlocks, p.parseTransitionBlock())
		default:
			p.errorf(p.cur().Pos, "expected data/states/transition block, found %s", p.describeCurrent())
			return decl
		}
	}
	p.expect(lexer.RBRACE)

	if len(p.errors) > 0 {
		return nil
	}
	return decl
}

// expectDottedName consumes an identifier, possibly containing embedded
// dots (bus names and interface names are dot-separated), and returns
// the combined literal text.
func (p *Parser) expectDottedName() string {
	tok := p.expect(lexer.IDENT)
	name := tok.Literal
	for p.is(lexer.DOT) {
		p.advance()
		next := p.expect(lexer.IDENT)
		name += "." + next.Literal
	}
	return name
}

func (p *Parser) parseDataBlock() []ast.DataEntry {
	p.advance() // "data"
	p.expect(lexer.LBRACE)
	var entries []ast.DataEntry
	for !p.is(lexer.RBRACE) && !p.atEOF() && len(p.errors) == 0 {
		nameTok := p.expect(lexer.IDENT)
		var annotation *string
		if p.is(lexer.LT) {
			p.advance()
			sigTok := p.expect(lexer.STRING)
			s := sigTok.Literal
			annotation = &s
			p.expect(lexer.GT)
		}
		p.expect(lexer.ASSIGN)
		expr := p.parseLiteralExpression()
		lit, isLit := expr.(ast.DataLiteral)
		if !isLit {
			p.errorf(expr.Pos(), "data entry %q must be initialised with a literal", nameTok.Literal)
		}
		if annotation != nil && isLit {
			p.applyAnnotation(lit, *annotation)
		}
		p.expect(lexer.SEMI)
		if isLit {
			entries = append(entries, ast.DataEntry{Position: nameTok.Pos, Name: nameTok.Literal, Literal: lit})
		}
	}
	p.expect(lexer.RBRACE)
	return entries
}

func (p *Parser) parseStatesBlock() []string {
	p.advance() // "states"
	p.expect(lexer.LBRACE)
	var names []string
	for !p.is(lexer.RBRACE) && !p.atEOF() && len(p.errors) == 0 {
		tok := p.expect(lexer.IDENT)
		names = append(names, tok.Literal)
		p.expect(lexer.SEMI)
	}
	p.expect(lexer.RBRACE)
	return names
}
