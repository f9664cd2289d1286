package prettyprinter

import (
	"testing"

	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src), "test.yul")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return prog
}

// roundTrip parses src, prints it, reparses the printed text, and prints
// again; the second printing must match the first, since Print only ever
// reads the AST (spec.md §3's node shapes), never source positions.
func roundTrip(t *testing.T, src string) {
	t.Helper()
	prog1 := parse(t, src)
	out1 := Print(prog1)

	prog2 := parse(t, out1)
	out2 := Print(prog2)

	if out1 != out2 {
		t.Fatalf("round-trip mismatch:\n--- first ---\n%s\n--- second ---\n%s", out1, out2)
	}
}

func TestRoundTripDecl(t *testing.T) {
	roundTrip(t, `{ let x:u32 := 2 let y := 3 }`)
}

func TestRoundTripCallAndAssign(t *testing.T) {
	roundTrip(t, `{ let x := add(1,2) x := 5 }`)
}

func TestRoundTripIf(t *testing.T) {
	roundTrip(t, `{ if lt(1,2) { let x := 1 } }`)
}

func TestRoundTripSwitch(t *testing.T) {
	roundTrip(t, `{
		let x := 1
		switch x
		case 1 { let y := 1 }
		case 2 { let y := 2 }
		default { let y := 0 }
	}`)
}

func TestRoundTripFor(t *testing.T) {
	roundTrip(t, `{
		for { let i:u32 := 0 } lt(i, 10) { i := add(i, 1) } {
			let z := mul(i, i)
		}
	}`)
}

func TestRoundTripFnDef(t *testing.T) {
	roundTrip(t, `{
		function sq(a:u32) -> b:u32 {
			b := mul(a, a)
		}
	}`)
}

func TestRoundTripBreakContinueLeave(t *testing.T) {
	roundTrip(t, `{
		function f() {
			for { let i:u32 := 0 } lt(i, 10) { i := add(i, 1) } {
				if eq(i, 5) { break }
				if eq(i, 1) { continue }
				if eq(i, 9) { leave }
			}
		}
	}`)
}

func TestDumpDoesNotPanic(t *testing.T) {
	prog := parse(t, `{
		function sq(a:u32) -> b:u32 { b := mul(a, a) }
		let x := sq(3)
	}`)
	out := Dump(prog)
	if out == "" {
		t.Fatalf("expected non-empty dump")
	}
}
