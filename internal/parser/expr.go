package parser

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// The expression grammar is a standard precedence ladder, loosest to
// tightest: || , && , == != , < <= > >= , + - , * / % , unary ! , primary.

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.is(lexer.OR) {
		tok := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Position: tok.Pos, Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.is(lexer.AND) {
		tok := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Position: tok.Pos, Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseRelational()
	for p.is(lexer.EQ) || p.is(lexer.NE) {
		tok := p.advance()
		op := ast.OpEq
		if tok.Type == lexer.NE {
			op = ast.OpNe
		}
		right := p.parseRelational()
		left = &ast.BinaryExpr{Position: tok.Pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expression {
	left := p.parseAdditive()
	for p.is(lexer.LT) || p.is(lexer.LE) || p.is(lexer.GT) || p.is(lexer.GE) {
		tok := p.advance()
		var op ast.BinaryOp
		switch tok.Type {
		case lexer.LT:
			op = ast.OpLT
		case lexer.LE:
			op = ast.OpLE
		case lexer.GT:
			op = ast.OpGT
		default:
			op = ast.OpGE
		}
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Position: tok.Pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.is(lexer.PLUS) || p.is(lexer.MINUS) {
		tok := p.advance()
		op := ast.OpAdd
		if tok.Type == lexer.MINUS {
			op = ast.OpSub
		}
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Position: tok.Pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.is(lexer.STAR) || p.is(lexer.SLASH) || p.is(lexer.PERCENT) {
		tok := p.advance()
		var op ast.BinaryOp
		switch tok.Type {
		case lexer.STAR:
			op = ast.OpMul
		case lexer.SLASH:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		right := p.parseUnary()
		left = &ast.BinaryExpr{Position: tok.Pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.is(lexer.NOT) {
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Position: tok.Pos, Op: ast.OpNot, Operand: operand}
	}
	return p.parsePrimary()
}
