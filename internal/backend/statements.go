package backend

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
)

// compileStmt dispatches on every node kind that can appear directly in a
// Block's statement sequence (spec.md §4.1/§4.4).
func (e *Emitter) compileStmt(stmt ast.Expr) error {
	switch n := stmt.(type) {
	case *ast.Decl:
		return e.compileDecl(n)
	case *ast.Assign:
		return e.compileAssign(n)
	case *ast.If:
		return e.compileIf(n)
	case *ast.Switch:
		return e.compileSwitch(n)
	case *ast.For:
		return e.compileFor(n)
	case *ast.Repeat:
		return e.compileRepeat(n)
	case *ast.Break:
		return e.compileBreak(n)
	case *ast.Continue:
		return e.compileContinue(n)
	case *ast.Leave:
		return e.compileLeave(n)
	case *ast.Block:
		return e.compileBlockBody(n)
	case *ast.Call, *ast.NumLit, *ast.BoolLit, *ast.StrLit, *ast.Var:
		return e.compileCallStmt(stmt)
	default:
		return e.errf(stmt, diagnostics.UnsupportedFeature, "node of type %T cannot appear as a statement", stmt)
	}
}

// compileCallStmt compiles a bare expression used as a statement (a call,
// a variable reference or a literal). Any cells it produces stay on the
// stack as the statement's value (spec.md §8: an expression block's net
// effect is its value arity) and are labeled with a fresh temporary name so
// that a later reconciliation target can locate them; a void call (mstore,
// a procedure with no returns) produces none.
func (e *Emitter) compileCallStmt(n ast.Expr) error {
	before := e.stack.Len()
	if err := e.compileExpr(n); err != nil {
		return err
	}
	if grew := e.stack.Len() - before; grew > 0 {
		name := e.allocTemp()
		for d := 0; d < grew; d++ {
			e.stack.AddName(d, name)
		}
	}
	return nil
}

// compileDecl compiles rhs (leaving its value(s) on top) then relabels the
// top slot(s) with the declared binder names, one binder per returned
// width group (spec.md §4.4 "Declaration").
func (e *Emitter) compileDecl(n *ast.Decl) error {
	if n.Rhs == nil {
		for _, b := range n.Binders {
			e.stack.PushWidth(b.Width, b.Name)
		}
		return nil
	}
	if err := e.compileExpr(n.Rhs); err != nil {
		return err
	}
	return e.labelTopGroups(n.Binders)
}

// labelTopGroups walks binders in declaration order and attaches each
// binder's name to its cell group, first binder's group deepest and last
// binder's group nearest the top — the order a procedure leaves its
// returns in (see buildReturnTarget; spec.md §3 invariant 4).
func (e *Emitter) labelTopGroups(binders []ast.Binder) error {
	depth := 0
	for _, b := range binders {
		depth += b.Width.Cells()
	}
	for _, b := range binders {
		for c := 0; c < b.Width.Cells(); c++ {
			depth--
			e.stack.AddName(depth, b.Name)
		}
	}
	return nil
}

// compileAssign implements spec.md §4.4 "Assignment": a bare Var rhs is
// pure aliasing (no emission); otherwise the rhs is compiled, any prior
// binding of the target names is dropped, and the fresh top is relabeled.
// A target still live deeper in the stack is first buried in place: its
// old slot is stripped of the name (so later lookups skip it) and the
// newly computed value is labeled at the top, which is where every
// subsequent reference will find it (spec.md §9's documented pattern).
func (e *Emitter) compileAssign(n *ast.Assign) error {
	if v, ok := n.Rhs.(*ast.Var); ok && len(n.Targets) == 1 {
		depths, ok := e.stack.GroupDepths(v.Name, n.Widths[0])
		if !ok {
			return e.errf(n, diagnostics.Scope, "undefined variable %q", v.Name)
		}
		for _, d := range depths {
			e.stack.AddName(d, n.Targets[0])
		}
		return nil
	}
	if err := e.compileExpr(n.Rhs); err != nil {
		return err
	}
	for _, name := range n.Targets {
		e.stack.RemoveName(name)
	}
	return e.labelTopGroups(targetBinders(n))
}

func targetBinders(n *ast.Assign) []ast.Binder {
	out := make([]ast.Binder, len(n.Targets))
	for i, name := range n.Targets {
		out[i] = ast.Binder{Name: name, Width: n.Widths[i]}
	}
	return out
}
