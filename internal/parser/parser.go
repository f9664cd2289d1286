// Package parser implements a hand-written recursive-descent parser for
// the PEG-like grammar of spec.md §4.1. Unlike the wider analyzer family's
// incremental, error-collecting parser, YulLite's parser fails fast: a
// syntax error aborts the whole parse with a single diagnostic and no
// partial AST is returned (spec.md §4.1, §7).
package parser

import (
	"math/big"

	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/token"
	"github.com/papyruslang/papyrus/internal/width"
)

// Parser consumes tokens from a lexer.Lexer-compatible token source and
// builds an *ast.Program.
type Parser struct {
	file string
	toks []token.Token
	pos  int
}

// tokenSource is satisfied by *lexer.Lexer; kept narrow so the parser
// package doesn't need to import lexer directly (parser_test.go passes a
// *lexer.Lexer to New as well).
type tokenSource interface {
	NextToken() token.Token
}

// New drains src into a token buffer and returns a Parser ready to parse
// one Program. file is used only for diagnostics.
func New(src tokenSource, file string) *Parser {
	p := &Parser{file: file}
	for {
		t := src.NextToken()
		p.toks = append(p.toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	return p
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peek() token.Token { return p.toks[p.pos+1] }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(t token.Type) bool { return p.cur().Type == t }

func (p *Parser) errf(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.Syntax, p.cur(), format, args...).WithFile(p.file)
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if !p.at(t) {
		return token.Token{}, p.errf("expected %s, found %s %q", t, p.cur().Type, p.cur().Lexeme)
	}
	return p.advance(), nil
}

// ParseProgram parses the whole token stream: an optional `object "name" {
// code { ... } }` wrapper, or a bare top-level Block.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var body *ast.Block
	var err error
	if p.at(token.OBJECT) {
		body, err = p.parseObjectWrapper()
	} else {
		body, err = p.parseBlock()
	}
	if err != nil {
		return nil, err
	}
	if !p.at(token.EOF) {
		return nil, p.errf("unexpected trailing token %s %q after program", p.cur().Type, p.cur().Lexeme)
	}
	return &ast.Program{File: p.file, Body: body}, nil
}

// parseObjectWrapper consumes `object "name" { code { ... } }`. Per
// spec.md §9's fixed limitation, exactly one `code` child is accepted and
// nested `object` sections are rejected outright rather than silently
// ignored.
func (p *Parser) parseObjectWrapper() (*ast.Block, error) {
	p.advance() // 'object'
	if _, err := p.expect(token.STRING); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CODE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.at(token.CODE) {
		return nil, p.errf("object wrapper accepts only a single code block")
	}
	if p.at(token.OBJECT) {
		return nil, p.errf("nested object sections are not supported")
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return body, nil
}

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	brace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Token: brace}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Exprs = append(block.Exprs, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

// parseWidthAnnotation parses an optional `:u32` / `:u256` suffix,
// defaulting to W256 when absent (spec.md §4.1).
func (p *Parser) parseWidthAnnotation() (width.Width, error) {
	if !p.at(token.COLON) {
		return width.W256, nil
	}
	p.advance() // ':'
	switch p.cur().Type {
	case token.U32:
		p.advance()
		return width.W32, nil
	case token.U256:
		p.advance()
		return width.W256, nil
	default:
		return width.Unset, p.errf("expected u32 or u256 after ':', found %q", p.cur().Lexeme)
	}
}

func parseIntLiteral(tok token.Token) (*big.Int, error) {
	v := new(big.Int)
	base := 10
	lit := tok.Lexeme
	if tok.Type == token.HEXNUMBER {
		base = 16
		lit = lit[2:]
	}
	if _, ok := v.SetString(lit, base); !ok {
		return nil, diagnostics.New(diagnostics.Syntax, tok, "invalid integer literal %q", tok.Lexeme)
	}
	return v, nil
}
