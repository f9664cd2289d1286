package optimizer

import (
	"math/big"

	"github.com/papyruslang/papyrus/internal/ast"
)

// assignSite records the single statement that assigned a name, for names
// with an overall assignment count of exactly one.
type assignSite struct {
	count int
	rhs   ast.Expr
}

// ConstantPropagation implements spec.md §4.3's first pass: names assigned
// exactly once across the whole program, with a literal right-hand side,
// are folded into their use sites and their assignment is deleted.
//
// Only single-binder Decl and single-target Assign are considered — a
// multi-return binding is never a constant-propagation candidate, since
// its right-hand side is a Call rather than a literal.
func ConstantPropagation(body *ast.Block) {
	sites := map[string]*assignSite{}
	Rewrite(body, funcVisitor(func(e ast.Expr) (ast.Expr, bool) {
		switch n := e.(type) {
		case *ast.Decl:
			if len(n.Binders) == 1 && n.Rhs != nil {
				name := n.Binders[0].Name
				s := sites[name]
				if s == nil {
					s = &assignSite{}
					sites[name] = s
				}
				s.count++
				s.rhs = n.Rhs
			}
		case *ast.Assign:
			if len(n.Targets) == 1 {
				name := n.Targets[0]
				s := sites[name]
				if s == nil {
					s = &assignSite{}
					sites[name] = s
				}
				s.count++
				s.rhs = n.Rhs
			}
		}
		return e, true
	}))

	consts := map[string]*ast.NumLit{}
	for name, s := range sites {
		if s.count != 1 {
			continue
		}
		if lit, ok := s.rhs.(*ast.NumLit); ok {
			consts[name] = lit
		}
	}
	if len(consts) == 0 {
		return
	}

	Rewrite(body, funcVisitor(func(e ast.Expr) (ast.Expr, bool) {
		switch n := e.(type) {
		case *ast.Decl:
			if len(n.Binders) == 1 {
				if _, ok := consts[n.Binders[0].Name]; ok {
					return nil, false
				}
			}
		case *ast.Assign:
			if len(n.Targets) == 1 {
				if _, ok := consts[n.Targets[0]]; ok {
					return nil, false
				}
			}
		case *ast.Var:
			if lit, ok := consts[n.Name]; ok {
				return &ast.NumLit{Token: n.Token, Value: new(big.Int).Set(lit.Value), Width: n.Width}, true
			}
		}
		return e, true
	}))
}
