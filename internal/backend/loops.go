package backend

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
)

// compileFor implements spec.md §4.4 "For": compile init, snapshot the
// resulting stack as the loop-top target, compile the condition and
// consume it, then loop a while.true block that runs body, step,
// reconciles back to loop-top, and recomputes the condition for the next
// pass. After the loop it reconciles back to the stack as it was before
// init, dropping the binders init declared.
func (e *Emitter) compileFor(n *ast.For) error {
	outer := e.snapshotTargets()
	if err := e.compileBlockBody(n.Init); err != nil {
		return err
	}
	loopTop := e.snapshotTargets()

	if err := e.compileExpr(n.Cond); err != nil {
		return err
	}
	e.consumeFlag(exprWidth(n.Cond))

	e.loopTargets = append(e.loopTargets, loopTop)
	e.writeLine("while.true")
	e.indent++
	if err := e.compileBlockBody(n.Body); err != nil {
		e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
		return err
	}
	if err := e.compileBlockBody(n.Step); err != nil {
		e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
		return err
	}
	if err := e.reconcile(loopTop); err != nil {
		e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
		return err
	}
	if err := e.compileExpr(n.Cond); err != nil {
		e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
		return err
	}
	e.consumeFlag(exprWidth(n.Cond))
	e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
	e.indent--
	e.writeLine("end")
	return e.reconcile(outer)
}

// compileRepeat implements spec.md §4.4 "Repeat": snapshot, emit
// repeat.N, compile body, reconcile, end. The emitter never verifies N at
// this stage — it trusts the optimizer's promotion arithmetic (spec.md
// §4.3), the only producer of Repeat nodes.
func (e *Emitter) compileRepeat(n *ast.Repeat) error {
	target := e.snapshotTargets()
	e.loopTargets = append(e.loopTargets, target)
	e.emit("repeat.%d", n.Count)
	e.indent++
	if err := e.compileBlockBody(n.Body); err != nil {
		e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
		return err
	}
	if err := e.reconcile(target); err != nil {
		e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
		return err
	}
	e.loopTargets = e.loopTargets[:len(e.loopTargets)-1]
	e.indent--
	e.writeLine("end")
	return nil
}

func (e *Emitter) compileBreak(n *ast.Break) error {
	if len(e.loopTargets) == 0 {
		return e.errf(n, diagnostics.UnsupportedFeature, "break outside of a loop")
	}
	if err := e.reconcile(e.loopTargets[len(e.loopTargets)-1]); err != nil {
		return err
	}
	e.writeLine("break")
	return nil
}

func (e *Emitter) compileContinue(n *ast.Continue) error {
	if len(e.loopTargets) == 0 {
		return e.errf(n, diagnostics.UnsupportedFeature, "continue outside of a loop")
	}
	if err := e.reconcile(e.loopTargets[len(e.loopTargets)-1]); err != nil {
		return err
	}
	e.writeLine("continue")
	return nil
}

func (e *Emitter) compileLeave(n *ast.Leave) error {
	if len(e.fnTargets) == 0 {
		return e.errf(n, diagnostics.UnsupportedFeature, "leave outside of a function body")
	}
	if err := e.reconcile(e.fnTargets[len(e.fnTargets)-1]); err != nil {
		return err
	}
	e.writeLine("leave")
	return nil
}
