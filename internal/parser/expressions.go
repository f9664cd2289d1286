package parser

import (
	"strings"

	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/token"
	"github.com/papyruslang/papyrus/internal/width"
)

// parseExpr parses one primary expression: a literal, a variable
// reference, or a call. YulLite has no infix operators — arithmetic is
// expressed through named calls like add(x, y) — so there is no
// precedence climbing here.
func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.cur().Type {
	case token.NUMBER, token.HEXNUMBER:
		return p.parseNumLit()
	case token.STRING:
		return p.parseStrLit()
	case token.TRUE, token.FALSE:
		return p.parseBoolLit()
	case token.IDENT:
		return p.parseIdentExpr()
	default:
		return nil, p.errf("expected an expression, found %s %q", p.cur().Type, p.cur().Lexeme)
	}
}

func (p *Parser) parseNumLit() (ast.Expr, error) {
	tok := p.advance()
	val, err := parseIntLiteral(tok)
	if err != nil {
		return nil, err
	}
	n := &ast.NumLit{Token: tok, Value: val, Width: width.Unset}
	if p.at(token.COLON) {
		w, err := p.parseWidthAnnotation()
		if err != nil {
			return nil, err
		}
		n.Width = w
	}
	return n, nil
}

func (p *Parser) parseStrLit() (ast.Expr, error) {
	tok := p.advance()
	return &ast.StrLit{Token: tok, Bytes: []byte(unescape(tok.Lexeme))}, nil
}

func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (p *Parser) parseBoolLit() (ast.Expr, error) {
	tok := p.advance()
	b := &ast.BoolLit{Token: tok, Flag: tok.Type == token.TRUE, Width: width.Unset}
	if p.at(token.COLON) {
		w, err := p.parseWidthAnnotation()
		if err != nil {
			return nil, err
		}
		b.Width = w
	}
	return b, nil
}

// parseIdentExpr parses either a bare variable reference or a call
// `name(arg, ...)`.
func (p *Parser) parseIdentExpr() (ast.Expr, error) {
	tok := p.advance()
	if !p.at(token.LPAREN) {
		return &ast.Var{Token: tok, Name: tok.Lexeme, Width: width.Unset}, nil
	}
	p.advance() // '('
	call := &ast.Call{Token: tok, Name: tok.Lexeme}
	for !p.at(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}
