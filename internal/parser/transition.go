package parser

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// parseTransitionBlock parses a transition-block: either the
// general "from X to Y (from X to Y)* on trigger { ... }" form (with an
// optional leading name and ":nickname"), or the "IDENT inside STATE on
// trigger { ... }" self-loop sugar.
func (p *Parser) parseTransitionBlock() *ast.TransitionBlockDecl {
	p.advance() // "transition"

	var name, nickname string
	if p.is(lexer.IDENT) {
		name = p.advance().Literal
	}
	if p.is(lexer.COLON) {
		p.advance()
		nickname = p.expect(lexer.IDENT).Literal
	}
	if nickname == "" {
		nickname = name
	}

	var bindings []ast.TransitionBinding
	if p.is(lexer.INSIDE) {
		p.advance()
		state := p.expect(lexer.IDENT)
		bindings = append(bindings, ast.TransitionBinding{
			Position: state.Pos, FromState: state.Literal, ToState: state.Literal, Nickname: nickname,
		})
	} else {
		for p.is(lexer.FROM) {
			fromTok := p.advance()
			from := p.expect(lexer.IDENT).Literal
			p.expect(lexer.TO)
			to := p.expect(lexer.IDENT).Literal
			bindings = append(bindings, ast.TransitionBinding{
				Position: fromTok.Pos, FromState: from, ToState: to, Nickname: nickname,
			})
		}
		if len(bindings) == 0 {
			p.errorf(p.cur().Pos, "expected \"from\" or \"inside\" in transition block")
		}
	}

	p.expect(lexer.ON)
	trigger := p.parseTrigger()

	p.expect(lexer.LBRACE)
	var preconditions []*ast.Precondition
	for p.is(lexer.PRECONDITION) {
		preconditions = append(preconditions, p.parsePrecondition())
	}
	var statements []ast.Statement
	for !p.is(lexer.RBRACE) && !p.atEOF() && len(p.errors) == 0 {
		statements = append(statements, p.parseStatement())
	}
	closeTok := p.expect(lexer.RBRACE)

	def := &ast.TransitionDef{
		Position:      closeTok.Pos,
		Trigger:       trigger,
		Preconditions: preconditions,
		Statements:    statements,
	}
	return &ast.TransitionBlockDecl{Def: def, Bindings: bindings}
}

func (p *Parser) parseTrigger() ast.Trigger {
	switch p.cur().Type {
	case lexer.METHOD:
		p.advance()
		return ast.Trigger{Kind: ast.TriggerMethod, Member: p.expect(lexer.IDENT).Literal}
	case lexer.PROPERTY:
		p.advance()
		return ast.Trigger{Kind: ast.TriggerProperty, Member: p.expect(lexer.IDENT).Literal}
	case lexer.RANDOM:
		p.advance()
		return ast.Trigger{Kind: ast.TriggerArbitrary}
	default:
		p.errorf(p.cur().Pos, "expected \"method\", \"property\" or \"random\", found %s", p.describeCurrent())
		return ast.Trigger{Kind: ast.TriggerArbitrary}
	}
}

func (p *Parser) parsePrecondition() *ast.Precondition {
	start := p.advance() // "precondition"
	var errName string
	if p.is(lexer.THROWING) {
		p.advance()
		errName = p.expectDottedName()
	}
	p.expect(lexer.LBRACE)
	cond := p.parseLiteralExpression()
	p.expect(lexer.RBRACE)
	return &ast.Precondition{Position: start.Pos, ErrorName: errName, Condition: cond}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.EMIT:
		tok := p.advance()
		signal := p.expect(lexer.IDENT).Literal
		value := p.parseLiteralExpression()
		p.expect(lexer.SEMI)
		return &ast.EmitStmt{Position: tok.Pos, Signal: signal, Value: value}
	case lexer.REPLY:
		tok := p.advance()
		value := p.parseLiteralExpression()
		p.expect(lexer.SEMI)
		return &ast.ReplyStmt{Position: tok.Pos, Value: value}
	case lexer.THROW:
		tok := p.advance()
		errName := p.expectDottedName()
		p.expect(lexer.SEMI)
		return &ast.ThrowStmt{Position: tok.Pos, ErrorName: errName}
	default:
		lhs := p.parseLiteralExpression()
		tok := p.expect(lexer.ASSIGN)
		rhs := p.parseLiteralExpression()
		p.expect(lexer.SEMI)
		return &ast.AssignStmt{Position: tok.Pos, LHS: lhs, RHS: rhs}
	}
}
