// Package analyzer implements the Type Inferrer (spec.md §4.2): a single
// top-down walk that annotates every NumLit, Var, and Call with concrete
// widths, carrying a lexical name→width scope and propagating expected
// return widths down into subexpressions. Unlike the optimizer (C3), the
// inferrer mutates AST nodes in place rather than rebuilding the tree
// (spec.md §3: "mutated by C2 (width fields)").
package analyzer

import (
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/diagnostics"
	"github.com/papyruslang/papyrus/internal/width"
)

// procSig records a user procedure's declared parameter and return widths,
// gathered from its FnDef before the body is type-checked so forward
// references within the same program resolve (spec.md §4.2).
type procSig struct {
	params  []width.Width
	returns []width.Width
}

// Inferrer carries the mutable state of one inference pass.
type Inferrer struct {
	file   string
	scopes []map[string]width.Width
	procs  map[string]procSig
}

// New creates an Inferrer for a single compilation of file.
func New(file string) *Inferrer {
	return &Inferrer{file: file, procs: map[string]procSig{}}
}

// Infer type-checks prog in place and returns the first error encountered,
// if any.
func Infer(file string, prog *ast.Program) error {
	inf := New(file)
	inf.collectSignatures(prog.Body)
	inf.pushScope()
	defer inf.popScope()
	return inf.inferBlockBody(prog.Body)
}

func (inf *Inferrer) pushScope() {
	inf.scopes = append(inf.scopes, map[string]width.Width{})
}

func (inf *Inferrer) popScope() {
	inf.scopes = inf.scopes[:len(inf.scopes)-1]
}

func (inf *Inferrer) bind(name string, w width.Width) {
	inf.scopes[len(inf.scopes)-1][name] = w
}

// lookup walks scopes innermost-first (spec.md §3 invariant 3).
func (inf *Inferrer) lookup(name string) (width.Width, bool) {
	for i := len(inf.scopes) - 1; i >= 0; i-- {
		if w, ok := inf.scopes[i][name]; ok {
			return w, true
		}
	}
	return width.Unset, false
}

// collectSignatures walks the whole block recursively (without opening any
// scope) looking for FnDef nodes so that later calls to procedures
// declared below their call site still resolve.
func (inf *Inferrer) collectSignatures(b *ast.Block) {
	if b == nil {
		return
	}
	for _, e := range b.Exprs {
		if fn, ok := e.(*ast.FnDef); ok {
			sig := procSig{}
			for _, p := range fn.Params {
				sig.params = append(sig.params, p.Width)
			}
			for _, r := range fn.Returns {
				sig.returns = append(sig.returns, r.Width)
			}
			inf.procs[fn.Name] = sig
			inf.collectSignatures(fn.Body)
		}
	}
}

func (inf *Inferrer) errScope(tok ast.Expr, format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.Scope, tok.GetToken(), format, args...).WithFile(inf.file)
}

func (inf *Inferrer) errType(tok ast.Expr, format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.Type, tok.GetToken(), format, args...).WithFile(inf.file)
}

// pickWidth resolves the width a bare literal or homogeneous-width
// primitive call should adopt: the first expected width if present,
// otherwise W256 (spec.md §4.2).
func pickWidth(expected []width.Width) width.Width {
	if len(expected) > 0 && expected[0] != width.Unset {
		return expected[0]
	}
	return width.W256
}
