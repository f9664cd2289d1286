// Package optimizer implements the two independent AST rewrite passes of
// spec.md §4.3: constant propagation and for-to-repeat promotion. Both
// passes are optional — if disabled the emitter still produces correct
// code, only larger — and both share the Visitor/driver split spec.md §9
// recommends: a visitor decides, per node, to keep/replace/delete it, and
// a generic driver owns reconstructing the tree around that decision.
package optimizer

import "github.com/papyruslang/papyrus/internal/ast"

// Visitor is invoked once per node, after its children have already been
// rewritten. Returning (nil, false) deletes the node from its parent
// sequence; returning (repl, true) replaces it (repl may be e itself,
// unchanged).
type Visitor interface {
	Visit(e ast.Expr) (ast.Expr, bool)
}

// Rewrite recursively reconstructs e's subtree, invoking v.Visit on every
// node bottom-up (children first). It is the single generic driver both
// optimizer passes run through.
func Rewrite(e ast.Expr, v Visitor) (ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.Block:
		out := n.Exprs[:0]
		for _, c := range n.Exprs {
			rc, keep := Rewrite(c, v)
			if keep {
				out = append(out, rc)
			}
		}
		n.Exprs = out
		return v.Visit(n)

	case *ast.Decl:
		if n.Rhs != nil {
			if rhs, keep := Rewrite(n.Rhs, v); keep {
				n.Rhs = rhs
			} else {
				n.Rhs = nil
			}
		}
		return v.Visit(n)

	case *ast.Assign:
		if n.Rhs != nil {
			if rhs, keep := Rewrite(n.Rhs, v); keep {
				n.Rhs = rhs
			}
		}
		return v.Visit(n)

	case *ast.Call:
		for i, a := range n.Args {
			if ra, keep := Rewrite(a, v); keep {
				n.Args[i] = ra
			}
		}
		return v.Visit(n)

	case *ast.If:
		if c, keep := Rewrite(n.Cond, v); keep {
			n.Cond = c
		}
		rewriteBlockInPlace(n.Body, v)
		return v.Visit(n)

	case *ast.Switch:
		if s, keep := Rewrite(n.Scrutinee, v); keep {
			n.Scrutinee = s
		}
		for _, c := range n.Cases {
			rewriteBlockInPlace(c.Body, v)
		}
		if n.Default != nil {
			rewriteBlockInPlace(n.Default, v)
		}
		return v.Visit(n)

	case *ast.For:
		rewriteBlockInPlace(n.Init, v)
		if c, keep := Rewrite(n.Cond, v); keep {
			n.Cond = c
		}
		rewriteBlockInPlace(n.Step, v)
		rewriteBlockInPlace(n.Body, v)
		return v.Visit(n)

	case *ast.Repeat:
		rewriteBlockInPlace(n.Body, v)
		return v.Visit(n)

	case *ast.FnDef:
		rewriteBlockInPlace(n.Body, v)
		return v.Visit(n)

	default:
		// NumLit, StrLit, BoolLit, Var, Break, Continue, Leave: leaves.
		return v.Visit(n)
	}
}

func rewriteBlockInPlace(b *ast.Block, v Visitor) {
	if b == nil {
		return
	}
	Rewrite(b, v)
}

// funcVisitor adapts a plain function to the Visitor interface.
type funcVisitor func(e ast.Expr) (ast.Expr, bool)

func (f funcVisitor) Visit(e ast.Expr) (ast.Expr, bool) { return f(e) }

// Options toggles the two optional passes (spec.md §4.3: "Both passes are
// optional").
type Options struct {
	ConstProp      bool
	RepeatPromote  bool
}

// Optimize runs the enabled passes over prog's body in spec order (const
// propagation, then for-to-repeat promotion).
func Optimize(prog *ast.Program, opts Options) {
	if opts.ConstProp {
		ConstantPropagation(prog.Body)
	}
	if opts.RepeatPromote {
		PromoteRepeats(prog.Body)
	}
}
