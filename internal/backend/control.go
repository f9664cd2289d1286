package backend

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/width"
)

// compileIf compiles the condition, then emits if.true/end around a body
// whose net stack effect must be zero: the emitter records the stack
// before the block and restores it afterward via reconciliation (spec.md
// §4.4 "If").
func (e *Emitter) compileIf(n *ast.If) error {
	if err := e.compileExpr(n.Cond); err != nil {
		return err
	}
	e.consumeFlag(exprWidth(n.Cond))
	target := e.snapshotTargets()

	e.writeLine("if.true")
	e.indent++
	if err := e.compileBlockBody(n.Body); err != nil {
		return err
	}
	if err := e.reconcile(target); err != nil {
		return err
	}
	e.indent--
	e.writeLine("end")
	return nil
}

// compileSwitch compiles the scrutinee once, then checks it against each
// case literal in turn with an independent if.true. Case literals are
// distinct by construction (spec.md §4.2 duplicate-case rejection lives in
// the inferrer), so at most one case's body ever runs — but the VM's only
// conditional primitive is a one-armed if.true, with no explicit jump or
// else, so first-match-wins has to be tracked explicitly: a W32 "matched"
// flag starts false, each case that fires sets it true on its way out, and
// the default body (if any) is itself wrapped in an if.true on
// iszero(matched) (spec.md §4.4 "Switch": "the order guarantees first-match
// wins because each case's if.true body also emits an explicit jump past
// the remaining cases" — realized here as a flag guard rather than a raw
// jump, since the instruction set has none).
func (e *Emitter) compileSwitch(n *ast.Switch) error {
	outerTarget := e.snapshotTargets()

	if err := e.compileExpr(n.Scrutinee); err != nil {
		return err
	}
	scrutName := e.allocTemp()
	if err := e.labelTopGroups([]ast.Binder{{Name: scrutName, Width: n.Width}}); err != nil {
		return err
	}

	matchedName := e.allocTemp()
	e.pushW32(0, matchedName)

	for _, c := range n.Cases {
		if err := e.compileSwitchArm(scrutName, matchedName, n.Width, c.Literal, c.Body); err != nil {
			return err
		}
	}

	if n.Default != nil {
		if err := e.compileSwitchDefault(matchedName, n.Default); err != nil {
			return err
		}
	}
	e.stack.RemoveName(scrutName)
	e.stack.RemoveName(matchedName)

	return e.reconcile(outerTarget)
}

func (e *Emitter) compileSwitchArm(scrutName, matchedName string, w width.Width, lit *ast.NumLit, body *ast.Block) error {
	depths, ok := e.stack.GroupDepths(scrutName, w)
	if !ok {
		return diagnostics.Newf(diagnostics.Scope, "internal: switch scrutinee %q lost", scrutName)
	}
	for i := len(depths) - 1; i >= 0; i-- {
		e.dup(depths[i] + (len(depths) - 1 - i))
	}
	if err := e.compileNumLit(lit); err != nil {
		return err
	}
	if w == width.W256 {
		if err := e.compileW256Binary(w256PreludeBinary["eq"].proc, w256PreludeBinary["eq"].order); err != nil {
			return err
		}
	} else {
		e.writeLine("eq")
		e.stack.DropTop(2)
		e.stack.PushCells(1)
	}
	e.consumeFlag(w)

	armTarget := e.snapshotTargets()
	e.writeLine("if.true")
	e.indent++
	if err := e.compileBlockBody(body); err != nil {
		return err
	}
	e.stack.RemoveName(matchedName)
	e.pushW32(1, matchedName)
	if err := e.reconcile(armTarget); err != nil {
		return err
	}
	e.indent--
	e.writeLine("end")
	return nil
}

// compileSwitchDefault guards body behind iszero(matched): the default runs
// only when no earlier case's if.true fired.
func (e *Emitter) compileSwitchDefault(matchedName string, body *ast.Block) error {
	depths, ok := e.stack.GroupDepths(matchedName, width.W32)
	if !ok {
		return diagnostics.Newf(diagnostics.Scope, "internal: switch matched flag %q lost", matchedName)
	}
	e.dup(depths[0])
	e.writeLine("iszero")
	e.stack.DropTop(1)
	e.stack.PushCells(1)
	e.consumeFlag(width.W32)

	target := e.snapshotTargets()
	e.writeLine("if.true")
	e.indent++
	if err := e.compileBlockBody(body); err != nil {
		return err
	}
	if err := e.reconcile(target); err != nil {
		return err
	}
	e.indent--
	e.writeLine("end")
	return nil
}
