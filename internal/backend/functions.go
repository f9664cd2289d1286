package backend

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/width"
)

// compileFnDef implements spec.md §4.4 "Function definition". It runs
// against a fresh symbolic stack seeded with the parameters and the
// zero-initialized returns (spec.md §3 invariant 6), then reconciles the
// body's end state to the declared return shape — which is exactly
// "duplicate each return name to the top in declaration order, drop
// everything beneath" (spec.md §4.4's drop_after), so Leave and normal
// fall-through share the same reconciliation target.
func (e *Emitter) compileFnDef(n *ast.FnDef) error {
	savedStack := e.stack
	e.stack = Stack{}

	for _, p := range n.Params {
		e.stack.PushWidth(p.Width, p.Name)
	}

	retTarget := buildReturnTarget(n.Returns)

	e.fnTargets = append(e.fnTargets, retTarget)
	e.emit("proc.%s", n.Name)
	e.indent++
	for _, r := range n.Returns {
		switch r.Width {
		case width.W256:
			e.pushW256([8]uint32{}, r.Name)
		default:
			e.pushW32(0, r.Name)
		}
	}
	if err := e.compileBlockBody(n.Body); err != nil {
		e.fnTargets = e.fnTargets[:len(e.fnTargets)-1]
		e.stack = savedStack
		return err
	}
	if err := e.reconcile(retTarget); err != nil {
		e.fnTargets = e.fnTargets[:len(e.fnTargets)-1]
		e.stack = savedStack
		return err
	}
	e.fnTargets = e.fnTargets[:len(e.fnTargets)-1]
	e.indent--
	e.writeLine("end")

	e.procs[n.Name] = signatureShape(n)
	e.stack = savedStack
	return nil
}

// signatureShape is a function's call shape as seen by its callers: fully
// determined by its declared parameters and returns, independent of its
// body (see Compile's forward-reference pre-pass).
func signatureShape(fn *ast.FnDef) ProcShape {
	returnNames := make([]string, 0, len(fn.Returns))
	for _, r := range fn.Returns {
		returnNames = append(returnNames, r.Name)
	}
	return ProcShape{
		ParamCells:  cellCount(fn.Params),
		ReturnCells: cellCount(fn.Returns),
		ReturnNames: returnNames,
	}
}

func cellCount(binders []ast.Binder) int {
	n := 0
	for _, b := range binders {
		n += b.Width.Cells()
	}
	return n
}

// buildReturnTarget renders returns as a bottom-to-top reconciliation
// target: the first declared return ends up deepest, the last nearest the
// top, matching "duplicate each return name to the top in declaration
// order".
func buildReturnTarget(returns []ast.Binder) []target {
	var out []target
	for _, r := range returns {
		for c := 0; c < r.Width.Cells(); c++ {
			out = append(out, target{names: []string{r.Name}})
		}
	}
	return out
}
