package parser

import (
	"testing"

	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/width"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src), "test.yul")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return prog
}

func TestParseDecl(t *testing.T) {
	prog := parse(t, `{ let x:u32 := 2 let y := 3 }`)
	if len(prog.Body.Exprs) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body.Exprs))
	}
	d0, ok := prog.Body.Exprs[0].(*ast.Decl)
	if !ok {
		t.Fatalf("expected *ast.Decl, got %T", prog.Body.Exprs[0])
	}
	if d0.Binders[0].Name != "x" || d0.Binders[0].Width != width.W32 {
		t.Fatalf("unexpected binder: %+v", d0.Binders[0])
	}
	d1 := prog.Body.Exprs[1].(*ast.Decl)
	if d1.Binders[0].Width != width.W256 {
		t.Fatalf("expected default width W256, got %v", d1.Binders[0].Width)
	}
}

func TestParseCallAndAssign(t *testing.T) {
	prog := parse(t, `{ let x := add(1,2) x := 5 }`)
	decl := prog.Body.Exprs[0].(*ast.Decl)
	call, ok := decl.Rhs.(*ast.Call)
	if !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("unexpected rhs: %#v", decl.Rhs)
	}
	assign := prog.Body.Exprs[1].(*ast.Assign)
	if len(assign.Targets) != 1 || assign.Targets[0] != "x" {
		t.Fatalf("unexpected assign targets: %v", assign.Targets)
	}
}

func TestParseMultiAssign(t *testing.T) {
	prog := parse(t, `{ a, b := f() }`)
	assign := prog.Body.Exprs[0].(*ast.Assign)
	if len(assign.Targets) != 2 || assign.Targets[0] != "a" || assign.Targets[1] != "b" {
		t.Fatalf("unexpected targets: %v", assign.Targets)
	}
}

func TestParseIfSwitchFor(t *testing.T) {
	prog := parse(t, `{
		if lt(x,y) { x := 5 }
		switch x case 0 { y := 1 } default { y := 2 }
		for { let i := 0 } lt(i,10) { i := add(i,1) } { y := i }
	}`)
	if len(prog.Body.Exprs) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body.Exprs))
	}
	if _, ok := prog.Body.Exprs[0].(*ast.If); !ok {
		t.Fatalf("expected If, got %T", prog.Body.Exprs[0])
	}
	sw, ok := prog.Body.Exprs[1].(*ast.Switch)
	if !ok || len(sw.Cases) != 1 || sw.Default == nil {
		t.Fatalf("unexpected switch: %#v", sw)
	}
	if _, ok := prog.Body.Exprs[2].(*ast.For); !ok {
		t.Fatalf("expected For, got %T", prog.Body.Exprs[2])
	}
}

func TestParseFunctionDef(t *testing.T) {
	prog := parse(t, `{
		function sq(a) -> b { let b := mul(a,a) }
		mul(sq(3), 2)
	}`)
	fn, ok := prog.Body.Exprs[0].(*ast.FnDef)
	if !ok || fn.Name != "sq" || len(fn.Params) != 1 || len(fn.Returns) != 1 {
		t.Fatalf("unexpected fndef: %#v", prog.Body.Exprs[0])
	}
}

func TestParseObjectWrapper(t *testing.T) {
	prog := parse(t, `object "Contract" { code { let x := 1 } }`)
	if len(prog.Body.Exprs) != 1 {
		t.Fatalf("expected unwrapped body with 1 statement, got %d", len(prog.Body.Exprs))
	}
}

func TestParseNestedObjectRejected(t *testing.T) {
	p := New(lexer.New(`object "A" { code { object "B" { code { } } } }`), "t.yul")
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected syntax error for nested object")
	}
}

func TestParseHexAndStringLiteral(t *testing.T) {
	prog := parse(t, `{ let x := 0xff mstore(100, "hi") }`)
	decl := prog.Body.Exprs[0].(*ast.Decl)
	lit := decl.Rhs.(*ast.NumLit)
	if lit.Value.Int64() != 255 {
		t.Fatalf("expected 255, got %v", lit.Value)
	}
	call := prog.Body.Exprs[1].(*ast.Call)
	str, ok := call.Args[1].(*ast.StrLit)
	if !ok || string(str.Bytes) != "hi" {
		t.Fatalf("unexpected string literal: %#v", call.Args[1])
	}
}
