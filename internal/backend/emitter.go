// Package backend implements the Code Generator (C4) and Runtime Prelude
// (C5): a single top-down AST walk that simulates a stack-based VM at
// compile time, emitting one instruction per line (spec.md §4.4, §6
// "Output format"), built on the same buffer-and-indent writer structure
// internal/prettyprinter uses, generalized from pretty-printing to
// instruction emission.
package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/width"
)

// Emitter walks a Program and renders StackVM assembly. It keeps exactly
// the state spec.md §4.4 names: the symbolic stack, indentation, a
// monotonic memory-address allocator, the procedure table, and the output
// buffer (spec.md §9: "acceptable as a single owned, thread-confined
// value").
type Emitter struct {
	file   string
	stack  Stack
	indent int
	out    strings.Builder
	procs  ProcTable
	nextMemAddr uint32
	tempCounter int

	// loopTargets is a stack of loop-top reconciliation targets, one per
	// currently open For/Repeat, innermost last (spec.md §4.4: break and
	// continue both reconcile to the enclosing loop's loop-top target
	// before transferring control, the same target a normal iteration or
	// exit would already have to match).
	loopTargets [][]target

	// fnTargets is a stack of the enclosing function's post-drop_after
	// return-shape target, innermost last, consulted by Leave.
	fnTargets [][]target
}

// New creates an Emitter seeded with the prelude's procedure shapes.
func New(file string) *Emitter {
	return &Emitter{file: file, procs: preludeTable()}
}

// Compile renders prog to a complete assembly program: prelude procedures,
// then user proc.<name> blocks, then a begin...end envelope around the
// main body (spec.md §6).
func Compile(file string, prog *ast.Program) (string, error) {
	return CompileWithExtern(file, prog, nil)
}

// CompileWithExtern is Compile, but with extern pre-registered into the
// procedure table before any FnDef signature is collected — used by the
// REPL's --functions-file (spec.md §6/§10) to make procedures declared
// outside the current session's accumulated source callable without
// redefining their bodies. A name also defined by a FnDef in prog is
// overwritten by that definition, the same "last write wins" rule
// signatureShape's pre-registration pass already applies to source order.
func CompileWithExtern(file string, prog *ast.Program, extern ProcTable) (string, error) {
	e := New(file)
	for name, shape := range extern {
		e.procs[name] = shape
	}
	e.out.WriteString(preludeSource())

	fns := collectFnDefs(prog.Body)
	// Pre-register every signature before compiling any body so forward
	// and mutually recursive calls resolve regardless of source order
	// (spec.md §3 invariant: forward references resolve; a function's
	// call shape is fully determined by its declared Params/Returns, not
	// by compiling its body).
	for _, fn := range fns {
		e.procs[fn.Name] = signatureShape(fn)
	}
	for _, fn := range fns {
		if err := e.compileFnDef(fn); err != nil {
			return "", err
		}
	}

	e.writeLine("begin")
	e.indent++
	if err := e.compileBlockBody(prog.Body); err != nil {
		return "", err
	}
	e.indent--
	e.writeLine("end")
	return e.out.String(), nil
}

// collectFnDefs walks b (without recursing into non-FnDef bodies) in
// source order, gathering every FnDef wherever it appears — they may be
// interleaved with ordinary statements (spec.md §3: Program.Body holds
// them inline; the generator alone picks them out, spec.md §4.4: "Emitted
// once before the main program").
func collectFnDefs(b *ast.Block) []*ast.FnDef {
	var out []*ast.FnDef
	if b == nil {
		return out
	}
	for _, e := range b.Exprs {
		if fn, ok := e.(*ast.FnDef); ok {
			out = append(out, fn)
			out = append(out, collectFnDefs(fn.Body)...)
		}
	}
	return out
}

func (e *Emitter) errf(tok ast.Expr, kind diagnostics.Kind, format string, args ...interface{}) error {
	return diagnostics.New(kind, tok.GetToken(), format, args...).WithFile(e.file)
}

func (e *Emitter) writeLine(instr string) {
	e.out.WriteString(strings.Repeat("    ", e.indent))
	e.out.WriteString(instr)
	e.out.WriteString("\n")
}

func (e *Emitter) emit(format string, args ...interface{}) {
	e.writeLine(fmt.Sprintf(format, args...))
}

// allocTemp returns a fresh synthetic name, used to track anonymous
// call-result groups through a reorder (e.g. interleaving) without
// confusing them with source-level variables.
func (e *Emitter) allocTemp() string {
	e.tempCounter++
	return "%t" + strconv.Itoa(e.tempCounter)
}

// --- literal pushes ---

func (e *Emitter) pushW32(v uint32, names ...string) {
	e.emit("push %d", v)
	e.stack.PushCells(1, names...)
}

// pushW256 pushes eight words. push256's arguments run deepest-first: the
// first argument (word 0, least significant) ends up deepest and the last
// (word 7, most significant) ends up nearest the top — the layout every
// W256 value uses, forced by how the ripple-carry prelude accumulates its
// result (see compileW256Binary).
func (e *Emitter) pushW256(words [8]uint32, names ...string) {
	e.emit("push256 %d %d %d %d %d %d %d %d",
		words[0], words[1], words[2], words[3], words[4], words[5], words[6], words[7])
	e.stack.PushCells(8, names...)
}

func (e *Emitter) dup(depth int, names ...string) {
	e.emit("dup.%d", depth)
	e.stack.PushCells(1, names...)
}

// consumeFlag accounts for the cells a condition's result occupies: the
// if.true/while.true emitted right after it pops the flag itself. A
// W256-typed condition is a zero-extended boolean (flag deepest, seven zero
// words above it, see compare256/eq256Body), so its seven padding words are
// dropped first to bring the flag to the top.
func (e *Emitter) consumeFlag(w width.Width) {
	for i := 1; i < w.Cells(); i++ {
		e.writeLine("drop")
	}
	e.stack.DropTop(w.Cells())
}

func (e *Emitter) drop(n int) {
	for i := 0; i < n; i++ {
		e.writeLine("drop")
	}
	e.stack.DropTop(n)
}

// dropWindow keeps the top keepTop cells and discards the dropCount cells
// directly beneath them, leaving anything deeper untouched (the general
// form of spec.md §4.4 "Drop-after"): for each survivor in turn, move the
// current top down to the bottom of the keepTop+dropCount window via
// movdn.(windowLen-1) (or swap when that depth is 1). After keepTop
// repetitions the survivors occupy the bottom of the window in their
// original relative order and the dropCount displaced cells are left on
// top of the window, ready to drop.
func (e *Emitter) dropWindow(keepTop, dropCount int) {
	if dropCount <= 0 {
		return
	}
	moveDepth := keepTop + dropCount - 1
	for i := 0; i < keepTop; i++ {
		if moveDepth == 1 {
			e.writeLine("swap")
		} else {
			e.emit("movdn.%d", moveDepth)
		}
		e.stack.MoveDown(moveDepth)
	}
	e.drop(dropCount)
}

// dropAfter retains only the top k cells, discarding everything beneath
// (spec.md §4.4 "Drop-after"): the whole-stack instance of dropWindow.
func (e *Emitter) dropAfter(k int) {
	total := e.stack.Len()
	if k >= total {
		return
	}
	e.dropWindow(k, total-k)
}

// compileBlockBody compiles each statement of b in source order. Block
// itself carries no independent stack effect beyond its statements' sum
// (spec.md §8: "Stack balance").
func (e *Emitter) compileBlockBody(b *ast.Block) error {
	if b == nil {
		return nil
	}
	for _, expr := range b.Exprs {
		if _, isFn := expr.(*ast.FnDef); isFn {
			continue // emitted separately, once, before the main program
		}
		if err := e.compileStmt(expr); err != nil {
			return err
		}
	}
	return nil
}

// target is one entry of a reconciliation target stack: the name-set a
// slot at this position must carry (spec.md §3/§4.4/§9).
type target struct {
	names []string
}

// snapshotTargets captures the emitter's current stack as a reconciliation
// target, ordered bottom first — the order reconcile walks in.
func (e *Emitter) snapshotTargets() []target {
	n := e.stack.Len()
	out := make([]target, n)
	for depth := 0; depth < n; depth++ {
		slot := e.stack.At(depth)
		var names []string
		for nm := range slot.names {
			names = append(names, nm)
		}
		out[n-1-depth] = target{names: names}
	}
	return out
}

// reconcile drives the symbolic stack back to targets (bottom-most target
// first), per spec.md §4.4's "Target-stack reconciliation": walk targets
// bottom-to-top, duplicating a currently-live slot matching each position
// to the top, then drop whatever surplus is left beneath the freshly
// rebuilt sequence. Called at loop back-edges, loop exits, block ends, and
// function bodies.
func (e *Emitter) reconcile(targets []target) error {
	built := 0
	for _, t := range targets {
		var name string
		if len(t.names) > 0 {
			name = t.names[0]
		}
		depth, ok := e.stack.NearestDepth(name)
		if !ok {
			return fmt.Errorf("backend: reconciliation target %q not found on stack", name)
		}
		e.dup(depth, t.names...)
		built++
	}
	e.dropAfter(built)
	return nil
}
