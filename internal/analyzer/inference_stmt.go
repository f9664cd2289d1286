package analyzer

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/width"
)

// inferStmt types the statement-shaped Expr variants: Decl, Assign, If,
// Switch, For, FnDef, Block, Break, Continue, Leave, plus bare expressions
// (calls, variables, literals) used as statements, which are typed with no
// expected width.
func (inf *Inferrer) inferStmt(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.NumLit, *ast.BoolLit, *ast.StrLit, *ast.Var, *ast.Call:
		return inf.inferExpr(e, nil)
	case *ast.Decl:
		return inf.inferDecl(n)
	case *ast.Assign:
		return inf.inferAssign(n)
	case *ast.If:
		return inf.inferIf(n)
	case *ast.Switch:
		return inf.inferSwitch(n)
	case *ast.For:
		return inf.inferFor(n)
	case *ast.FnDef:
		return inf.inferFnDef(n)
	case *ast.Block:
		return inf.inferBlockScoped(n)
	case *ast.Break, *ast.Continue, *ast.Leave:
		return nil
	default:
		return diagnostics.Newf(diagnostics.UnsupportedFeature, "analyzer: unhandled node %T", e).WithFile(inf.file)
	}
}

func (inf *Inferrer) inferDecl(d *ast.Decl) error {
	if d.Rhs != nil {
		expected := make([]width.Width, len(d.Binders))
		for i, b := range d.Binders {
			expected[i] = b.Width
		}
		if err := inf.inferExpr(d.Rhs, expected); err != nil {
			return err
		}
		if call, ok := d.Rhs.(*ast.Call); ok && len(call.ReturnWidths) != len(d.Binders) {
			return inf.errType(d.Rhs, "%s returns %d value(s), %d binder(s) declared", call.Name, len(call.ReturnWidths), len(d.Binders))
		}
	}
	for _, b := range d.Binders {
		inf.bind(b.Name, b.Width)
	}
	return nil
}

func (inf *Inferrer) inferAssign(a *ast.Assign) error {
	a.Widths = make([]width.Width, len(a.Targets))
	for i, name := range a.Targets {
		w, ok := inf.lookup(name)
		if !ok {
			return diagnostics.New(diagnostics.Scope, a.Token, "undefined variable %q", name).WithFile(inf.file)
		}
		a.Widths[i] = w
	}
	if err := inf.inferExpr(a.Rhs, a.Widths); err != nil {
		return err
	}
	if call, ok := a.Rhs.(*ast.Call); ok && len(call.ReturnWidths) != len(a.Targets) {
		return inf.errType(a.Rhs, "%s returns %d value(s), %d target(s) assigned", call.Name, len(call.ReturnWidths), len(a.Targets))
	}
	return nil
}

func (inf *Inferrer) inferIf(n *ast.If) error {
	if err := inf.inferExpr(n.Cond, nil); err != nil {
		return err
	}
	return inf.inferBlockScoped(n.Body)
}

func (inf *Inferrer) inferSwitch(n *ast.Switch) error {
	if err := inf.inferExpr(n.Scrutinee, nil); err != nil {
		return err
	}
	n.Width = scrutineeWidth(n.Scrutinee)
	seen := make(map[string]bool, len(n.Cases))
	for _, c := range n.Cases {
		if err := inf.inferNumLit(c.Literal, []width.Width{n.Width}); err != nil {
			return err
		}
		if key := c.Literal.Value.String(); seen[key] {
			return inf.errType(c.Literal, "duplicate case literal %s", key)
		} else {
			seen[key] = true
		}
		if err := inf.inferBlockScoped(c.Body); err != nil {
			return err
		}
	}
	if n.Default != nil {
		if err := inf.inferBlockScoped(n.Default); err != nil {
			return err
		}
	}
	return nil
}

func scrutineeWidth(e ast.Expr) width.Width {
	switch n := e.(type) {
	case *ast.NumLit:
		return n.Width
	case *ast.Var:
		return n.Width
	case *ast.Call:
		if len(n.ReturnWidths) > 0 {
			return n.ReturnWidths[0]
		}
	}
	return width.W256
}

func (inf *Inferrer) inferFor(n *ast.For) error {
	inf.pushScope()
	defer inf.popScope()
	if err := inf.inferBlockBody(n.Init); err != nil {
		return err
	}
	if err := inf.inferExpr(n.Cond, nil); err != nil {
		return err
	}
	if err := inf.inferBlockScoped(n.Step); err != nil {
		return err
	}
	return inf.inferBlockScoped(n.Body)
}

func (inf *Inferrer) inferFnDef(n *ast.FnDef) error {
	inf.pushScope()
	defer inf.popScope()
	for _, p := range n.Params {
		inf.bind(p.Name, p.Width)
	}
	for _, r := range n.Returns {
		inf.bind(r.Name, r.Width)
	}
	return inf.inferBlockBody(n.Body)
}

// inferBlockScoped opens a fresh lexical scope for a nested block (if/for/
// switch-case/function bodies), per spec.md §4.2's "pushed on Block, For,
// FnDef".
func (inf *Inferrer) inferBlockScoped(b *ast.Block) error {
	inf.pushScope()
	defer inf.popScope()
	return inf.inferBlockBody(b)
}

// inferBlockBody types each statement of b in the current scope, without
// pushing a new one (used for the top-level program body and Init, which
// share their enclosing For's scope).
func (inf *Inferrer) inferBlockBody(b *ast.Block) error {
	if b == nil {
		return nil
	}
	for _, e := range b.Exprs {
		if err := inf.inferStmt(e); err != nil {
			return err
		}
	}
	return nil
}
