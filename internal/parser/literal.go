package parser

import (
	"strconv"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/lexer"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// applyAnnotation parses sigStr as a D-Bus signature and attaches it to
// lit as its "@T" type annotation.
func (p *Parser) applyAnnotation(lit ast.DataLiteral, sigStr string) {
	t, ok := types.ParseWholeSignature(sigStr)
	if !ok {
		p.errorf(lit.Pos(), "invalid type annotation signature %q", sigStr)
		return
	}
	lit.Metadata().Annotation = &t
}

// parseLiteralExpression parses a full expression (entry point used where
// the grammar calls for a general "expr", e.g. data-block initialisers,
// statement right-hand sides, reply values).
func (p *Parser) parseLiteralExpression() ast.Expression {
	return p.parseOr()
}

// parsePrimary parses a primary expression: a literal, a parenthesised
// expression/tuple, a function call, a variant wrap, an annotated literal,
// or a bare variable reference — then applies the "?weight" fuzz-weight
// suffix if the result is a DataLiteral.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()

	var expr ast.Expression
	switch tok.Type {
	case lexer.AT:
		p.advance()
		sigTok := p.expect(lexer.STRING)
		inner := p.parsePrimary()
		if lit, ok := inner.(ast.DataLiteral); ok {
			p.applyAnnotation(lit, sigTok.Literal)
		} else {
			p.errorf(tok.Pos, "type annotation may only be applied to a literal")
		}
		expr = inner
	case lexer.LT:
		p.advance()
		inner := p.parseLiteralExpression()
		p.expect(lexer.GT)
		expr = &ast.VariantLiteral{Meta: ast.Meta{Position: tok.Pos}, Inner: inner}
	case lexer.TRUE:
		p.advance()
		expr = &ast.BoolLiteral{Meta: ast.Meta{Position: tok.Pos}, Value: true}
	case lexer.FALSE:
		p.advance()
		expr = &ast.BoolLiteral{Meta: ast.Meta{Position: tok.Pos}, Value: false}
	case lexer.INT:
		p.advance()
		expr = &ast.IntegerLiteral{Meta: ast.Meta{Position: tok.Pos}, Raw: tok.Literal}
	case lexer.FLOAT:
		p.advance()
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		expr = &ast.DoubleLiteral{Meta: ast.Meta{Position: tok.Pos}, Raw: tok.Literal, Value: f}
	case lexer.STRING:
		p.advance()
		expr = &ast.StringLiteral{Meta: ast.Meta{Position: tok.Pos}, Value: tok.Literal}
	case lexer.LBRACKET:
		expr = p.parseArrayLiteral()
	case lexer.LBRACE:
		expr = p.parseDictLiteral()
	case lexer.LPAREN:
		expr = p.parseParenOrTuple()
	case lexer.NOT:
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Position: tok.Pos, Op: ast.OpNot, Operand: operand}
	case lexer.IDENT:
		expr = p.parseIdentOrCall()
	default:
		p.errorf(tok.Pos, "unexpected token %s in expression", p.describeCurrent())
		p.advance()
		return &ast.BoolLiteral{Meta: ast.Meta{Position: tok.Pos}, Value: false}
	}

	return p.maybeApplyWeight(expr)
}

func (p *Parser) maybeApplyWeight(expr ast.Expression) ast.Expression {
	if !p.is(lexer.QUESTION) {
		return expr
	}
	p.advance()
	weight := 1.0
	if p.is(lexer.INT) || p.is(lexer.FLOAT) {
		tok := p.advance()
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		weight = f
	}
	if lit, ok := expr.(ast.DataLiteral); ok {
		lit.Metadata().Weight = weight
	} else {
		p.errorf(expr.Pos(), "fuzz weight suffix may only be applied to a literal")
	}
	return expr
}

func (p *Parser) parseIdentOrCall() ast.Expression {
	tok := p.advance()
	if p.is(lexer.LPAREN) {
		p.advance()
		var args []ast.Expression
		for !p.is(lexer.RPAREN) && !p.atEOF() {
			args = append(args, p.parseLiteralExpression())
			if p.is(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
		return &ast.FunctionCallExpr{Position: tok.Pos, Name: tok.Literal, Args: args}
	}
	return &ast.VariableLiteral{Meta: ast.Meta{Position: tok.Pos}, Name: tok.Literal}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.expect(lexer.LBRACKET)
	var elems []ast.Expression
	for !p.is(lexer.RBRACKET) && !p.atEOF() && len(p.errors) == 0 {
		elems = append(elems, p.parseLiteralExpression())
		if p.is(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLiteral{Meta: ast.Meta{Position: start.Pos}, Elements: elems}
}

func (p *Parser) parseDictLiteral() ast.Expression {
	start := p.expect(lexer.LBRACE)
	var entries []ast.DictEntryNode
	for !p.is(lexer.RBRACE) && !p.atEOF() && len(p.errors) == 0 {
		key := p.parseLiteralExpression()
		p.expect(lexer.COLON)
		value := p.parseLiteralExpression()
		entries = append(entries, ast.DictEntryNode{Key: key, Value: value})
		if p.is(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.DictLiteral{Meta: ast.Meta{Position: start.Pos}, Entries: entries}
}

// parseParenOrTuple disambiguates "(expr)" grouping from "(e1, e2, ...)"
// tuple literals and the unit tuple "()": a single element with no
// trailing comma is a grouped expression (unwrapped); anything else —
// zero elements, or one-or-more elements followed by a comma — is a
// tuple literal.
func (p *Parser) parseParenOrTuple() ast.Expression {
	start := p.expect(lexer.LPAREN)
	if p.is(lexer.RPAREN) {
		p.advance()
		return &ast.TupleLiteral{Meta: ast.Meta{Position: start.Pos}}
	}
	first := p.parseLiteralExpression()
	if !p.is(lexer.COMMA) {
		p.expect(lexer.RPAREN)
		return first
	}
	elems := []ast.Expression{first}
	for p.is(lexer.COMMA) {
		p.advance()
		if p.is(lexer.RPAREN) {
			break
		}
		elems = append(elems, p.parseLiteralExpression())
	}
	p.expect(lexer.RPAREN)
	return &ast.TupleLiteral{Meta: ast.Meta{Position: start.Pos}, Elements: elems}
}
