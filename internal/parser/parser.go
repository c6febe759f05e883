// Package parser builds an *ast.Program from simulation-program source
// It is a hand-rolled recursive-descent parser with a
// precedence-climbing expression parser — no parser generator is used.
package parser

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/diag"
	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// Parser consumes a pre-tokenised source file and builds an AST,
// accumulating diag.ParseErrors along the way. A non-empty error list
// means no usable AST was produced: no partial AST is ever returned.
// Parse discards whatever partial Program it built once
// any error has been recorded.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source string
	file   string
	errors []*diag.ParseError
}

// Parse tokenises and parses source, returning the Program on success or
// a non-empty error slice on failure (never both non-nil/non-empty).
func Parse(source, file string) (*ast.Program, []*diag.ParseError) {
	tokens, lexErrs := lexer.Tokenize(source)
	p := &Parser{tokens: tokens, source: source, file: file}
	for _, le := range lexErrs {
		p.errorf(le.Pos, "%s", le.Message)
	}

	prog := &ast.Program{}
	for !p.atEOF() && len(p.errors) == 0 {
		obj := p.parseObject()
		if obj == nil {
			break
		}
		prog.Objects = append(prog.Objects, obj)
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return prog, nil
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Type == lexer.EOF }

func (p *Parser) is(tt lexer.TokenType) bool { return p.cur().Type == tt }

// expect consumes the current token if it matches tt, else records a
// parse error and returns the zero Token.
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.cur().Type != tt {
		p.errorf(p.cur().Pos, "expected %s, found %s", tt, p.describeCurrent())
		return lexer.Token{}
	}
	return p.advance()
}

func (p *Parser) describeCurrent() string {
	if p.cur().Type == lexer.EOF {
		return "end of file"
	}
	return p.cur().Type.String()
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, diag.NewParseError(diag.Position(pos), p.source, p.file, format, args...))
}
