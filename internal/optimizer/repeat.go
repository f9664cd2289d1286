package optimizer

import (
	"math/big"

	"github.com/papyruslang/papyrus/internal/ast"
)

// maxSimulatedIterations bounds the exhaustive simulation used for mul/div
// step operators so a pathological program can't hang the compiler itself;
// loops that would exceed it are left as ordinary For loops.
const maxSimulatedIterations = 1 << 20

// PromoteRepeats implements spec.md §4.3's second pass: a For loop whose
// init/cond/step all have the shape the spec recognizes, and whose
// induction variable is never read or reassigned in the body, has a
// statically known iteration count and is rewritten to a Repeat.
func PromoteRepeats(body *ast.Block) {
	Rewrite(body, funcVisitor(func(e ast.Expr) (ast.Expr, bool) {
		f, ok := e.(*ast.For)
		if !ok {
			return e, true
		}
		if count, ok := checkPromotable(f); ok {
			return &ast.Repeat{Token: f.Token, Count: count, Body: f.Body}, true
		}
		return e, true
	}))
}

// checkPromotable recognizes:
//
//	for { let i := i0 } lt(i,K) | gt(i,K) { i := op(i,s) } { body }
//
// with op in {add, sub, mul, div}, i0/K/s literal, and i untouched by
// body, computing the number of iterations at compile time. An add step is
// only accepted with lt and a sub step only with gt; the other pairings
// are left as For loops.
func checkPromotable(f *ast.For) (uint32, bool) {
	if f.Init == nil || len(f.Init.Exprs) != 1 {
		return 0, false
	}
	decl, ok := f.Init.Exprs[0].(*ast.Decl)
	if !ok || len(decl.Binders) != 1 || decl.Rhs == nil {
		return 0, false
	}
	name := decl.Binders[0].Name
	i0, ok := decl.Rhs.(*ast.NumLit)
	if !ok {
		return 0, false
	}

	cond, ok := f.Cond.(*ast.Call)
	if !ok || len(cond.Args) != 2 {
		return 0, false
	}
	if cond.Name != "lt" && cond.Name != "gt" {
		return 0, false
	}
	condVar, ok := cond.Args[0].(*ast.Var)
	if !ok || condVar.Name != name {
		return 0, false
	}
	bound, ok := cond.Args[1].(*ast.NumLit)
	if !ok {
		return 0, false
	}

	if f.Step == nil || len(f.Step.Exprs) != 1 {
		return 0, false
	}
	step, ok := f.Step.Exprs[0].(*ast.Assign)
	if !ok || len(step.Targets) != 1 || step.Targets[0] != name {
		return 0, false
	}
	stepCall, ok := step.Rhs.(*ast.Call)
	if !ok || len(stepCall.Args) != 2 {
		return 0, false
	}
	stepVar, ok := stepCall.Args[0].(*ast.Var)
	if !ok || stepVar.Name != name {
		return 0, false
	}
	delta, ok := stepCall.Args[1].(*ast.NumLit)
	if !ok {
		return 0, false
	}

	if usesName(f.Body, name) {
		return 0, false
	}
	if (stepCall.Name == "add" && cond.Name != "lt") || (stepCall.Name == "sub" && cond.Name != "gt") {
		return 0, false
	}

	switch stepCall.Name {
	case "add":
		return ceilDivNonNeg(bound.Value, i0.Value, delta.Value)
	case "sub":
		return ceilDivNonNeg(i0.Value, bound.Value, delta.Value)
	case "mul", "div":
		return simulateIterations(i0.Value, bound.Value, delta.Value, cond.Name, stepCall.Name)
	default:
		return 0, false
	}
}

// ceilDivNonNeg computes ceil((hi-lo)/step), clamped to zero. It returns
// (0, false) — not promotable — for a non-positive step or a count that
// does not fit in uint32.
func ceilDivNonNeg(hi, lo, step *big.Int) (uint32, bool) {
	if step.Sign() <= 0 {
		return 0, false
	}
	diff := new(big.Int).Sub(hi, lo)
	if diff.Sign() <= 0 {
		return 0, true
	}
	num := new(big.Int).Add(diff, new(big.Int).Sub(step, big.NewInt(1)))
	count := new(big.Int).Div(num, step)
	if !count.IsUint64() || count.Uint64() > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(count.Uint64()), true
}

// simulateIterations runs the loop at compile time for the non-linear
// (mul/div) step operators, since no closed form applies.
func simulateIterations(i0, bound, delta *big.Int, condName, opName string) (uint32, bool) {
	if delta.Cmp(big.NewInt(1)) <= 0 {
		return 0, false
	}
	i := new(big.Int).Set(i0)
	var count uint32
	for {
		holds := false
		switch condName {
		case "lt":
			holds = i.Cmp(bound) < 0
		case "gt":
			holds = i.Cmp(bound) > 0
		}
		if !holds {
			return count, true
		}
		if count >= maxSimulatedIterations {
			return 0, false
		}
		switch opName {
		case "mul":
			i.Mul(i, delta)
		case "div":
			i.Div(i, delta)
		}
		count++
	}
}

// usesName reports whether name is read or reassigned anywhere in b,
// disqualifying its enclosing For from promotion (the induction variable
// must be wholly owned by the loop machinery spec.md §4.3 generates).
func usesName(b *ast.Block, name string) bool {
	if b == nil {
		return false
	}
	for _, e := range b.Exprs {
		if exprUsesName(e, name) {
			return true
		}
	}
	return false
}

func exprUsesName(e ast.Expr, name string) bool {
	switch n := e.(type) {
	case *ast.Var:
		return n.Name == name
	case *ast.Call:
		for _, a := range n.Args {
			if exprUsesName(a, name) {
				return true
			}
		}
	case *ast.Decl:
		return n.Rhs != nil && exprUsesName(n.Rhs, name)
	case *ast.Assign:
		for _, t := range n.Targets {
			if t == name {
				return true
			}
		}
		return n.Rhs != nil && exprUsesName(n.Rhs, name)
	case *ast.If:
		return exprUsesName(n.Cond, name) || usesName(n.Body, name)
	case *ast.Switch:
		if exprUsesName(n.Scrutinee, name) {
			return true
		}
		for _, c := range n.Cases {
			if usesName(c.Body, name) {
				return true
			}
		}
		return n.Default != nil && usesName(n.Default, name)
	case *ast.For:
		return usesName(n.Init, name) || exprUsesName(n.Cond, name) || usesName(n.Step, name) || usesName(n.Body, name)
	case *ast.Repeat:
		return usesName(n.Body, name)
	case *ast.FnDef:
		return usesName(n.Body, name)
	case *ast.Block:
		return usesName(n, name)
	}
	return false
}
