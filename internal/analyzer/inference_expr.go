package analyzer

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/width"
)

// inferExpr types e, propagating expected as the sequence of widths the
// caller wants back (spec.md §4.2).
func (inf *Inferrer) inferExpr(e ast.Expr, expected []width.Width) error {
	switch n := e.(type) {
	case *ast.NumLit:
		return inf.inferNumLit(n, expected)
	case *ast.BoolLit:
		return inf.inferBoolLit(n, expected)
	case *ast.StrLit:
		return nil
	case *ast.Var:
		return inf.inferVar(n, expected)
	case *ast.Call:
		return inf.inferCall(n, expected)
	default:
		// Statements reachable as Block.Exprs but never as an rhs/arg
		// position (If, Switch, Decl, Assign, For, FnDef, Break, Continue,
		// Leave) are handled by inferStmt; inferExpr is only ever called
		// on expression positions.
		return inf.inferStmt(e)
	}
}

func (inf *Inferrer) inferNumLit(n *ast.NumLit, expected []width.Width) error {
	w := pickWidth(expected)
	if n.Width != width.Unset {
		if len(expected) > 0 && expected[0] != width.Unset && expected[0] != n.Width {
			return inf.errType(n, "literal annotated :%s but %s expected", n.Width, expected[0])
		}
		return nil
	}
	n.Width = w
	return nil
}

func (inf *Inferrer) inferBoolLit(n *ast.BoolLit, expected []width.Width) error {
	w := pickWidth(expected)
	if n.Width != width.Unset {
		if len(expected) > 0 && expected[0] != width.Unset && expected[0] != n.Width {
			return inf.errType(n, "literal annotated :%s but %s expected", n.Width, expected[0])
		}
		return nil
	}
	n.Width = w
	return nil
}

func (inf *Inferrer) inferVar(n *ast.Var, expected []width.Width) error {
	w, ok := inf.lookup(n.Name)
	if !ok {
		return inf.errScope(n, "undefined variable %q", n.Name)
	}
	if len(expected) > 0 && expected[0] != width.Unset && expected[0] != w {
		return inf.errType(n, "variable %q is %s but %s expected", n.Name, w, expected[0])
	}
	n.Width = w
	return nil
}

// memoryPrimitives forces their first argument (a memory address) to W32
// regardless of the expected width (spec.md §4.2).
var memoryPrimitives = map[string]bool{"mstore": true, "mload": true}

func (inf *Inferrer) inferCall(call *ast.Call, expected []width.Width) error {
	if sig, ok := inf.procs[call.Name]; ok {
		return inf.inferUserCall(call, sig)
	}
	if memoryPrimitives[call.Name] {
		return inf.inferMemoryCall(call, expected)
	}
	return inf.inferPrimitiveCall(call, expected)
}

func (inf *Inferrer) inferUserCall(call *ast.Call, sig procSig) error {
	if len(call.Args) != len(sig.params) {
		return inf.errType(call, "%s expects %d argument(s), got %d", call.Name, len(sig.params), len(call.Args))
	}
	call.ParamWidths = sig.params
	call.ReturnWidths = sig.returns
	for i, arg := range call.Args {
		if err := inf.inferExpr(arg, []width.Width{sig.params[i]}); err != nil {
			return err
		}
	}
	return nil
}

func (inf *Inferrer) inferMemoryCall(call *ast.Call, expected []width.Width) error {
	switch call.Name {
	case "mstore":
		if len(call.Args) != 2 {
			return inf.errType(call, "mstore expects 2 arguments, got %d", len(call.Args))
		}
		if err := inf.inferExpr(call.Args[0], []width.Width{width.W32}); err != nil {
			return err
		}
		if err := inf.inferExpr(call.Args[1], nil); err != nil {
			return err
		}
		valueWidth := scrutineeWidth(call.Args[1])
		call.ParamWidths = []width.Width{width.W32, valueWidth}
		call.ReturnWidths = nil
	case "mload":
		if len(call.Args) != 1 {
			return inf.errType(call, "mload expects 1 argument, got %d", len(call.Args))
		}
		if err := inf.inferExpr(call.Args[0], []width.Width{width.W32}); err != nil {
			return err
		}
		w := pickWidth(expected)
		call.ParamWidths = []width.Width{width.W32}
		call.ReturnWidths = []width.Width{w}
	}
	return nil
}

// inferPrimitiveCall handles the homogeneous-width arithmetic/bitwise/
// comparison builtins (add, sub, mul, div, lt, gt, eq, and, or, iszero,
// ...): all operands share the call's own width, which is itself picked
// from the expected context exactly like a bare literal (spec.md §4.2,
// invariant 2). With no expected width, the first operand whose width is
// already fixed (a variable in scope or an annotated literal) decides it;
// failing that the call is W256.
func (inf *Inferrer) inferPrimitiveCall(call *ast.Call, expected []width.Width) error {
	w := pickWidth(expected)
	if len(expected) == 0 || expected[0] == width.Unset {
		for _, arg := range call.Args {
			if v, ok := arg.(*ast.Var); ok {
				if vw, found := inf.lookup(v.Name); found {
					w = vw
					break
				}
			}
			if lit, ok := arg.(*ast.NumLit); ok && lit.Width != width.Unset {
				w = lit.Width
				break
			}
		}
	}
	call.ParamWidths = make([]width.Width, len(call.Args))
	call.ReturnWidths = []width.Width{w}
	for i, arg := range call.Args {
		call.ParamWidths[i] = w
		if err := inf.inferExpr(arg, []width.Width{w}); err != nil {
			return err
		}
	}
	return nil
}
