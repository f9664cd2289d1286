package backend

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/codec"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/width"
)

// nativeBinary is the set of W32 primitives with a direct one-instruction
// StackVM encoding (spec.md §4.4: "consuming two top slots, pushing one").
var nativeBinary = map[string]string{
	"add": "add", "sub": "sub", "mul": "mul", "div": "div",
	"lt": "lt", "gt": "gt", "eq": "eq",
	"and": "and", "or": "or", "xor": "xor",
	"shl": "shl", "shr": "shr",
}

var nativeUnary = map[string]string{
	"iszero": "iszero",
	"not":    "not",
}

// w256PreludeBinary maps a primitive name to its prelude procedure and the
// word-processing order the emitter must interleave operands in before
// calling it (spec.md §4.5: ripple-carry ops need LSW-first, lexicographic
// compares need MSW-first; bitwise/equality are order-independent so they
// reuse LSW-first too).
var w256PreludeBinary = map[string]struct {
	proc  string
	order [8]int
}{
	"add": {"u256add_unsafe", lswFirst},
	"sub": {"u256sub_unsafe", lswFirst},
	"mul": {"u256mul", lswFirst},
	"and": {"u256and", lswFirst},
	"or":  {"u256or", lswFirst},
	"xor": {"u256xor", lswFirst},
	"eq":  {"u256eq", lswFirst},
	"lt":  {"u256lt", mswFirst},
	"gt":  {"u256gt", mswFirst},
	"shl": {"u256shl", lswFirst},
	"shr": {"u256shr", lswFirst},
}

var lswFirst = [8]int{0, 1, 2, 3, 4, 5, 6, 7}
var mswFirst = [8]int{7, 6, 5, 4, 3, 2, 1, 0}

// compileExpr compiles expr so that its result (width(expr).Cells() slots)
// ends up on top of the stack, unlabeled; the caller attaches whatever
// name(s) apply (Decl/Assign) or consumes it directly (primitive args).
func (e *Emitter) compileExpr(expr ast.Expr) error {
	switch n := expr.(type) {
	case *ast.NumLit:
		return e.compileNumLit(n)
	case *ast.BoolLit:
		return e.compileBoolLit(n)
	case *ast.StrLit:
		return e.compileStrLit(n)
	case *ast.Var:
		return e.compileVarRef(n)
	case *ast.Call:
		return e.compileCall(n)
	default:
		return e.errf(expr, diagnostics.UnsupportedFeature, "expression of type %T has no value-producing compilation", expr)
	}
}

func (e *Emitter) compileNumLit(n *ast.NumLit) error {
	switch n.Width {
	case width.W256:
		words, err := codec.EncodeWords(n.Value)
		if err != nil {
			return e.errf(n, diagnostics.ArithmeticPanic, "literal %s: %v", n.Value, err)
		}
		e.pushW256(words)
		return nil
	default:
		w, err := codec.EncodeWord(n.Value)
		if err != nil {
			return e.errf(n, diagnostics.ArithmeticPanic, "literal %s: %v", n.Value, err)
		}
		e.pushW32(w)
		return nil
	}
}

func (e *Emitter) compileBoolLit(n *ast.BoolLit) error {
	var v uint32
	if n.Flag {
		v = 1
	}
	if n.Width == width.W256 {
		var words [8]uint32
		words[0] = v
		e.pushW256(words)
		return nil
	}
	e.pushW32(v)
	return nil
}

// compileStrLit pushes a string literal's byte length as a W32 address
// surrogate; the prelude has no string-table primitive. The inferrer does
// not check the context a string literal appears in, so it is one W32 cell
// wherever it is used.
func (e *Emitter) compileStrLit(n *ast.StrLit) error {
	e.pushW32(uint32(len(n.Bytes)))
	return nil
}

// compileVarRef duplicates the named variable's current slot group to the
// top (spec.md §4.4: "locates the nearest slot whose name set contains n
// ... repeated for each of its eight limbs in correct order").
func (e *Emitter) compileVarRef(n *ast.Var) error {
	depths, ok := e.stack.GroupDepths(n.Name, n.Width)
	if !ok {
		return e.errf(n, diagnostics.Scope, "undefined variable %q", n.Name)
	}
	// depths[0] is the shallowest cell of the group; duplicating it first
	// would shift every deeper depth by one before we read it, so
	// duplicate deepest-first and let the slice walk pick up the shift.
	for i := len(depths) - 1; i >= 0; i-- {
		liveDepth := depths[i] + (len(depths) - 1 - i)
		e.dup(liveDepth)
	}
	return nil
}

func (e *Emitter) compileCall(n *ast.Call) error {
	if shape, ok := e.procs[n.Name]; ok && !isPrimitiveName(n.Name) {
		return e.compileUserCall(n, shape)
	}
	return e.compilePrimitive(n)
}

func isPrimitiveName(name string) bool {
	if _, ok := nativeBinary[name]; ok {
		return true
	}
	if _, ok := nativeUnary[name]; ok {
		return true
	}
	switch name {
	case "mstore", "mload":
		return true
	}
	return false
}

func (e *Emitter) compilePrimitive(n *ast.Call) error {
	switch n.Name {
	case "mstore":
		return e.compileMstore(n)
	case "mload":
		return e.compileMload(n)
	}

	if _, ok := nativeUnary[n.Name]; ok {
		if len(n.Args) != 1 {
			return e.errf(n, diagnostics.Scope, "%s takes exactly one argument", n.Name)
		}
		if err := e.compileExpr(n.Args[0]); err != nil {
			return err
		}
		w := argWidth(n, 0)
		if w == width.W256 {
			if n.Name != "iszero" {
				return e.errf(n, diagnostics.UnsupportedFeature, "%s has no u256 prelude entry", n.Name)
			}
			return e.execCall("iszero256")
		}
		e.emit("%s", nativeUnary[n.Name])
		e.stack.DropTop(1)
		e.stack.PushCells(1)
		return nil
	}

	if len(n.Args) != 2 {
		return e.errf(n, diagnostics.Scope, "%s takes exactly two arguments", n.Name)
	}
	if err := e.compileExpr(n.Args[0]); err != nil {
		return err
	}
	if err := e.compileExpr(n.Args[1]); err != nil {
		return err
	}
	w := argWidth(n, 0)
	if w == width.W256 {
		entry, ok := w256PreludeBinary[n.Name]
		if !ok {
			return e.errf(n, diagnostics.UnsupportedFeature, "%s has no u256 prelude entry", n.Name)
		}
		// Comparisons and equality zero-extend their flag back to eight
		// cells (spec.md §4.5), so every prelude binary returns a full
		// group regardless of which primitive it backs.
		return e.compileW256Binary(entry.proc, entry.order)
	}
	native, ok := nativeBinary[n.Name]
	if !ok {
		return e.errf(n, diagnostics.UnsupportedFeature, "unknown primitive %q", n.Name)
	}
	e.emit("%s", native)
	e.stack.DropTop(2)
	e.stack.PushCells(1)
	return nil
}

// exprWidth reports the width a compiled expression's result occupies,
// used where a caller (If/Switch) must know how many cells to consume a
// produced value as a single truthy flag.
func exprWidth(expr ast.Expr) width.Width {
	switch n := expr.(type) {
	case *ast.NumLit:
		return n.Width
	case *ast.BoolLit:
		return n.Width
	case *ast.Var:
		return n.Width
	case *ast.Call:
		if len(n.ReturnWidths) > 0 {
			return n.ReturnWidths[0]
		}
	}
	return width.W32
}

func argWidth(n *ast.Call, i int) width.Width {
	if i < len(n.ParamWidths) {
		return n.ParamWidths[i]
	}
	return width.W32
}

// compileUserCall compiles arguments in source order, emits exec.<name>,
// and splices in the recorded return-shape slots (spec.md §4.4 "Function
// call"). The pushed cells are unlabeled: a call's return names only exist
// at a Decl/Assign site, which attaches them afterward (see
// Emitter.labelTopGroups); mid-expression a call result is consumed
// directly, never by name.
func (e *Emitter) compileUserCall(n *ast.Call, shape ProcShape) error {
	for _, arg := range n.Args {
		if err := e.compileExpr(arg); err != nil {
			return err
		}
	}
	return e.execCall(n.Name)
}

// execCall emits exec.<name> and updates the symbolic stack according to
// the procedure table: drop the recorded parameter cells, push the
// recorded (unlabeled) return cells.
func (e *Emitter) execCall(name string) error {
	shape, ok := e.procs[name]
	if !ok {
		return diagnostics.Newf(diagnostics.Scope, "call to undeclared procedure %q", name)
	}
	e.emit("exec.%s", name)
	e.stack.DropTop(shape.ParamCells)
	e.stack.PushCells(shape.ReturnCells)
	return nil
}

// compileW256Binary interleaves the two already-compiled 8-word operands
// (a pushed first, so deeper; b pushed second, shallower) into adjacent
// (b_wi, a_wi) pairs in the given processing order, calls the prelude
// procedure, and discards the now-dead original 16 operand cells. Each
// group's word 7 (most significant) sits nearest its own top, word 0
// deepest, so word wi of a group based at depth `base` sits at depth
// `base + (7 - wi)` before any interleaving dups are taken.
func (e *Emitter) compileW256Binary(procName string, order [8]int) error {
	extra := 0
	for idx := len(order) - 1; idx >= 0; idx-- {
		wi := order[idx]
		aDepth := w256Words + (7 - wi) + extra
		e.dup(aDepth)
		extra++
		bDepth := (7 - wi) + extra
		e.dup(bDepth)
		extra++
	}
	if err := e.execCall(procName); err != nil {
		return err
	}
	e.dropWindow(w256Words, 2*w256Words)
	return nil
}
