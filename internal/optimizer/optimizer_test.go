package optimizer

import (
	"testing"

	"github.com/papyruslang/papyrus/internal/analyzer"
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src), "opt_test.yul")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := analyzer.Infer(prog.File, prog); err != nil {
		t.Fatalf("infer error: %v", err)
	}
	return prog
}

func countExprs(b *ast.Block) int { return len(b.Exprs) }

func TestConstantPropagationFoldsSingleAssignment(t *testing.T) {
	prog := mustParse(t, `{ let x := 5 let y := add(x, x) }`)
	ConstantPropagation(prog.Body)

	if countExprs(prog.Body) != 1 {
		t.Fatalf("expected the const Decl to be deleted, got %d statements", countExprs(prog.Body))
	}
	decl, ok := prog.Body.Exprs[0].(*ast.Decl)
	if !ok {
		t.Fatalf("expected remaining statement to be a Decl, got %T", prog.Body.Exprs[0])
	}
	call := decl.Rhs.(*ast.Call)
	for i, arg := range call.Args {
		lit, ok := arg.(*ast.NumLit)
		if !ok || lit.Value.Int64() != 5 {
			t.Fatalf("arg %d not folded to literal 5: %#v", i, arg)
		}
	}
}

func TestConstantPropagationLeavesMultiplyAssignedNames(t *testing.T) {
	prog := mustParse(t, `{ let x := 1 x := add(x, 1) let y := x }`)
	ConstantPropagation(prog.Body)

	if countExprs(prog.Body) != 3 {
		t.Fatalf("expected no statements removed for a name assigned twice, got %d", countExprs(prog.Body))
	}
}

func TestPromoteRepeatsRewritesAddLoop(t *testing.T) {
	prog := mustParse(t, `{ for { let i := 0 } lt(i, 10) { i := add(i, 1) } { let y := 1 } }`)
	PromoteRepeats(prog.Body)

	rep, ok := prog.Body.Exprs[0].(*ast.Repeat)
	if !ok {
		t.Fatalf("expected Repeat, got %T", prog.Body.Exprs[0])
	}
	if rep.Count != 10 {
		t.Fatalf("expected count 10, got %d", rep.Count)
	}
}

func TestPromoteRepeatsSkipsWhenInductionVariableIsRead(t *testing.T) {
	prog := mustParse(t, `{ for { let i := 0 } lt(i, 10) { i := add(i, 1) } { let y := i } }`)
	PromoteRepeats(prog.Body)

	if _, ok := prog.Body.Exprs[0].(*ast.For); !ok {
		t.Fatalf("expected For left unpromoted when body reads the induction variable, got %T", prog.Body.Exprs[0])
	}
}

func TestPromoteRepeatsSubLoop(t *testing.T) {
	prog := mustParse(t, `{ for { let i := 20 } gt(i, 0) { i := sub(i, 4) } { let y := 1 } }`)
	PromoteRepeats(prog.Body)

	rep, ok := prog.Body.Exprs[0].(*ast.Repeat)
	if !ok {
		t.Fatalf("expected Repeat, got %T", prog.Body.Exprs[0])
	}
	if rep.Count != 5 {
		t.Fatalf("expected count 5, got %d", rep.Count)
	}
}
