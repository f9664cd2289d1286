package parser

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/token"
)

// parseStatement dispatches on the current token to one of the
// block-level constructs of spec.md §4.1.
func (p *Parser) parseStatement() (ast.Expr, error) {
	switch p.cur().Type {
	case token.LET:
		return p.parseDecl()
	case token.FUNCTION:
		return p.parseFnDef()
	case token.IF:
		return p.parseIf()
	case token.SWITCH:
		return p.parseSwitch()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		return &ast.Break{Token: p.advance()}, nil
	case token.CONTINUE:
		return &ast.Continue{Token: p.advance()}, nil
	case token.LEAVE:
		return &ast.Leave{Token: p.advance()}, nil
	case token.IDENT:
		return p.parseIdentStatement()
	default:
		return nil, p.errf("expected a statement, found %s %q", p.cur().Type, p.cur().Lexeme)
	}
}

// parseIdentStatement disambiguates `name(...)` call statements and
// `name[, name ...] := expr` assignments from a bare expression statement
// (a variable referenced only for its value, e.g. a block's trailing
// result) by looking at what follows the first identifier.
func (p *Parser) parseIdentStatement() (ast.Expr, error) {
	startTok := p.cur()
	savedPos := p.pos
	firstName := p.advance().Lexeme

	if p.at(token.LPAREN) {
		// It was a call: `name(args)`. Rewind and re-parse as an expression.
		p.pos = savedPos
		return p.parseExpr()
	}

	if !p.at(token.COMMA) && !p.at(token.ASSIGN) {
		// Neither a call nor the start of an assignment target list: a
		// bare expression statement. Rewind and re-parse as an expression
		// rather than demanding a `:=` that will never come.
		p.pos = savedPos
		return p.parseExpr()
	}

	targets := []string{firstName}
	for p.at(token.COMMA) {
		p.advance()
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		targets = append(targets, id.Lexeme)
	}

	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Token: startTok, Targets: targets, Rhs: rhs}, nil
}

// parseDecl parses `let name[:type][, name[:type] ...] [:= expr]`.
func (p *Parser) parseDecl() (ast.Expr, error) {
	tok := p.advance() // 'let'
	var binders []ast.Binder
	for {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		w, err := p.parseWidthAnnotation()
		if err != nil {
			return nil, err
		}
		binders = append(binders, ast.Binder{Name: id.Lexeme, Width: w})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	decl := &ast.Decl{Token: tok, Binders: binders}
	if p.at(token.ASSIGN) {
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Rhs = rhs
	}
	return decl, nil
}

// parseIf parses `if cond { body }`.
func (p *Parser) parseIf() (ast.Expr, error) {
	tok := p.advance() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.If{Token: tok, Cond: cond, Body: body}, nil
}

// parseSwitch parses `switch e case lit { body } ... [default { body }]`.
func (p *Parser) parseSwitch() (ast.Expr, error) {
	tok := p.advance() // 'switch'
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	sw := &ast.Switch{Token: tok, Scrutinee: scrutinee}
	for p.at(token.CASE) {
		caseTok := p.advance()
		lit, err := p.parseNumLit()
		if err != nil {
			return nil, err
		}
		numLit, ok := lit.(*ast.NumLit)
		if !ok {
			return nil, p.errf("case label must be a numeric literal")
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, &ast.Case{Token: caseTok, Literal: numLit, Body: body})
	}
	if len(sw.Cases) == 0 {
		return nil, p.errf("switch requires at least one case")
	}
	if p.at(token.DEFAULT) {
		p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		sw.Default = body
	}
	return sw, nil
}

// parseFor parses `for { init } cond { step } { body }`.
func (p *Parser) parseFor() (ast.Expr, error) {
	tok := p.advance() // 'for'
	init, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	step, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Token: tok, Init: init, Cond: cond, Step: step, Body: body}, nil
}

// parseFnDef parses `function f(p:t, ...) -> r:t, ... { body }`. The
// return list (and its arrow) is optional: a procedure may return nothing.
func (p *Parser) parseFnDef() (ast.Expr, error) {
	tok := p.advance() // 'function'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseBinderList()
	if err != nil {
		return nil, err
	}
	var returns []ast.Binder
	if p.at(token.ARROW) {
		p.advance()
		returns, err = p.parseBinderListBare()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FnDef{Token: tok, Name: name.Lexeme, Params: params, Returns: returns, Body: body}, nil
}

// parseBinderList parses a parenthesized `(name:type, ...)` list.
func (p *Parser) parseBinderList() ([]ast.Binder, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var binders []ast.Binder
	for !p.at(token.RPAREN) {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		w, err := p.parseWidthAnnotation()
		if err != nil {
			return nil, err
		}
		binders = append(binders, ast.Binder{Name: id.Lexeme, Width: w})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return binders, nil
}

// parseBinderListBare parses a comma-separated `name:type, ...` list with
// no surrounding parentheses, as used after `->`.
func (p *Parser) parseBinderListBare() ([]ast.Binder, error) {
	var binders []ast.Binder
	for {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		w, err := p.parseWidthAnnotation()
		if err != nil {
			return nil, err
		}
		binders = append(binders, ast.Binder{Name: id.Lexeme, Width: w})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return binders, nil
}
