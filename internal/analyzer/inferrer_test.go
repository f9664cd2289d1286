package analyzer

import (
	"strings"
	"testing"

	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/parser"
	"github.com/papyruslang/papyrus/internal/width"
)

func infer(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	p := parser.New(lexer.New(src), "inf_test.yul")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog, Infer(prog.File, prog)
}

func TestInferDefaultWidthIsW256(t *testing.T) {
	prog, err := infer(t, `{ let x := 1 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := prog.Body.Exprs[0].(*ast.Decl)
	lit := decl.Rhs.(*ast.NumLit)
	if lit.Width != width.W256 {
		t.Fatalf("expected W256, got %v", lit.Width)
	}
}

func TestInferBinderWidthPropagatesToLiteral(t *testing.T) {
	prog, err := infer(t, `{ let x:u32 := 1 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := prog.Body.Exprs[0].(*ast.Decl)
	lit := decl.Rhs.(*ast.NumLit)
	if lit.Width != width.W32 {
		t.Fatalf("expected W32, got %v", lit.Width)
	}
}

func TestInferMstoreForcesAddressToW32(t *testing.T) {
	prog, err := infer(t, `{ mstore(0:u32, 5:u256) }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := prog.Body.Exprs[0].(*ast.Call)
	if call.ParamWidths[0] != width.W32 || call.ParamWidths[1] != width.W256 {
		t.Fatalf("unexpected param widths: %v", call.ParamWidths)
	}
}

func TestInferMstoreRejectsNonW32Address(t *testing.T) {
	_, err := infer(t, `{ mstore(0:u256, 5) }`)
	if err == nil {
		t.Fatalf("expected a type error for a non-W32 mstore address")
	}
}

func TestInferUserProcArityMismatch(t *testing.T) {
	_, err := infer(t, `{
		function sq(a) -> b { let b := mul(a,a) }
		sq(1,2)
	}`)
	if err == nil || !strings.Contains(err.Error(), "expects") {
		t.Fatalf("expected an arity error, got %v", err)
	}
}

func TestInferUserProcForwardReferenceResolves(t *testing.T) {
	_, err := infer(t, `{
		let r := sq(3)
		function sq(a) -> b { let b := mul(a,a) }
	}`)
	if err != nil {
		t.Fatalf("unexpected error for a forward reference: %v", err)
	}
}

func TestInferUndefinedVariableIsScopeError(t *testing.T) {
	_, err := infer(t, `{ let x := add(y, 1) }`)
	if err == nil {
		t.Fatalf("expected a scope error for undefined y")
	}
}

func TestInferMultiReturnArityMismatch(t *testing.T) {
	_, err := infer(t, `{
		function pair() -> a, b { let a := 1 let b := 2 }
		let x := pair()
	}`)
	if err == nil {
		t.Fatalf("expected an error: pair() returns 2 values, 1 binder declared")
	}
}

func TestInferShadowingInNestedScope(t *testing.T) {
	prog, err := infer(t, `{
		let x:u32 := 1
		if lt(x, 2) { let x := 5 }
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer := prog.Body.Exprs[0].(*ast.Decl)
	if outer.Binders[0].Width != width.W32 {
		t.Fatalf("outer binding width mismatch: %v", outer.Binders[0].Width)
	}
}

func TestInferSwitchCaseLiteralMustMatchScrutineeWidth(t *testing.T) {
	_, err := infer(t, `{
		let x:u32 := 1
		switch x case 0:u256 { let y := 1 } default { let y := 2 }
	}`)
	if err == nil {
		t.Fatalf("expected a type error for a case literal annotated with the wrong width")
	}
}
