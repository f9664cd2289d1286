package backend

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/width"
)

// compileMstore compiles `mstore(addr, v)`: consumes 1+width(v) slots and
// pushes none, via native mem.store for W32 or the u256mstore prelude
// procedure for W256 (spec.md §4.4).
func (e *Emitter) compileMstore(n *ast.Call) error {
	if len(n.Args) != 2 {
		return e.errf(n, diagnostics.Scope, "mstore takes exactly two arguments")
	}
	if err := e.compileExpr(n.Args[0]); err != nil {
		return err
	}
	if err := e.compileExpr(n.Args[1]); err != nil {
		return err
	}
	if argWidth(n, 1) == width.W256 {
		return e.execCall("u256mstore")
	}
	e.writeLine("mem.store")
	e.stack.DropTop(2)
	return nil
}

// compileMload compiles `mload(addr)`, pushing width(result) slots via
// native mem.load for W32 or the u256mload prelude procedure for W256.
func (e *Emitter) compileMload(n *ast.Call) error {
	if len(n.Args) != 1 {
		return e.errf(n, diagnostics.Scope, "mload takes exactly one argument")
	}
	if err := e.compileExpr(n.Args[0]); err != nil {
		return err
	}
	resultWidth := width.W32
	if len(n.ReturnWidths) > 0 {
		resultWidth = n.ReturnWidths[0]
	}
	if resultWidth == width.W256 {
		return e.execCall("u256mload")
	}
	e.writeLine("mem.load")
	e.stack.DropTop(1)
	e.stack.PushCells(1)
	return nil
}
