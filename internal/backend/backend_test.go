package backend

import (
	"strings"
	"testing"

	"github.com/papyruslang/papyrus/internal/analyzer"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/optimizer"
	"github.com/papyruslang/papyrus/internal/parser"
)

// compileForTest runs parse, infer, optimize and compile with both
// optimizer passes switched off, so every declared binder is still live on
// the final symbolic stack and the cell counts below follow directly from
// the source (internal/optimizer's own tests cover the passes). It also
// hands back the Emitter used for the final compile so tests can
// inspect its ending symbolic stack — spec.md §8's end-to-end scenarios are
// stated as "source -> expected final top-of-stack", and without a bundled
// executor (E2 is out of scope, see internal/oracle) the cell-count and
// shape of that final top is what a structural test can check.
func compileForTest(t *testing.T, src string) (string, *Emitter) {
	t.Helper()

	wrapped := "{\n" + src + "\n}"
	p := parser.New(lexer.New(wrapped), "test.yul")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := analyzer.Infer("test.yul", prog); err != nil {
		t.Fatalf("infer: %v", err)
	}
	optimizer.Optimize(prog, optimizer.Options{ConstProp: false, RepeatPromote: false})

	e := New("test.yul")
	fns := collectFnDefs(prog.Body)
	for _, fn := range fns {
		e.procs[fn.Name] = signatureShape(fn)
	}
	for _, fn := range fns {
		if err := e.compileFnDef(fn); err != nil {
			t.Fatalf("compile fndef %s: %v", fn.Name, err)
		}
	}
	e.writeLine("begin")
	e.indent++
	if err := e.compileBlockBody(prog.Body); err != nil {
		t.Fatalf("compile body: %v", err)
	}
	e.indent--
	e.writeLine("end")

	return e.out.String(), e
}

// TestDeterminism checks spec.md §8's "compile(compile) is a fixed point":
// compiling the same source twice must produce byte-identical assembly.
func TestDeterminism(t *testing.T) {
	const src = "function sq(a)->b{let b:=mul(a,a)} function sec()->c{let c:=42} mul(sq(3),sec())"
	asm1, _ := compileForTest(t, src)
	asm2, _ := compileForTest(t, src)
	if asm1 != asm2 {
		t.Fatalf("compile is not deterministic:\n--- first ---\n%s\n--- second ---\n%s", asm1, asm2)
	}
}

// TestScenario1AddW256 covers spec.md §8 scenario 1: add(1,2) -> 3 (u256),
// an 8-cell result left on top of the stack.
func TestScenario1AddW256(t *testing.T) {
	asm, e := compileForTest(t, "add(1,2)")
	if e.stack.Len() != 8 {
		t.Fatalf("expected 8 cells on stack (u256), got %d\n%s", e.stack.Len(), asm)
	}
	if !strings.Contains(asm, "u256add") {
		t.Fatalf("expected a u256add call in assembly:\n%s", asm)
	}
}

// TestScenario2IfReassign covers spec.md §8 scenario 2: a branch that
// conditionally reassigns x, final value x -> 5 (u32, 1 cell).
func TestScenario2IfReassign(t *testing.T) {
	const src = "let x:u32:=2 let y:u32:=3 if lt(x,y){x:=5} x"
	asm, e := compileForTest(t, src)
	if e.stack.Len() != 3 {
		// x, y still live plus the final bare reference to x pushed on top.
		t.Fatalf("expected 3 live cells (x, y, and the trailing x), got %d\n%s", e.stack.Len(), asm)
	}
}

// TestScenario3MutualFunctionCalls covers spec.md §8 scenario 3: two
// zero/one-arg helper functions combined through mul, forward-reference
// order exercised by declaring sq before sec.
func TestScenario3MutualFunctionCalls(t *testing.T) {
	const src = "function sq(a)->b{let b:=mul(a,a)} function sec()->c{let c:=42} mul(sq(3),sec())"
	asm, e := compileForTest(t, src)
	if !strings.Contains(asm, "proc.sq") || !strings.Contains(asm, "proc.sec") {
		t.Fatalf("expected both proc.sq and proc.sec emitted:\n%s", asm)
	}
	if e.stack.Len() != 8 {
		t.Fatalf("expected 8 cells (u256 mul result), got %d\n%s", e.stack.Len(), asm)
	}
}

// TestScenario4FibonacciLoop covers spec.md §8 scenario 4: a for-loop
// accumulating a Fibonacci sequence, ending with b on top.
func TestScenario4FibonacciLoop(t *testing.T) {
	const src = "let n:=10 let a:=0 let b:=1 let c:=0 for{let i:=0} lt(i,n) {i:=add(i,1)} {c:=add(a,b) a:=b b:=c} b"
	asm, e := compileForTest(t, src)
	if !strings.Contains(asm, "while.true") && !strings.Contains(asm, "repeat") {
		t.Fatalf("expected a loop construct in assembly:\n%s", asm)
	}
	// n, a, b, c remain live (8 cells each, default u256) plus the trailing
	// bare reference to b.
	if e.stack.Len() != 5*8 {
		t.Fatalf("expected 5 live u256 groups worth of cells, got %d\n%s", e.stack.Len(), asm)
	}
}

// TestScenario5LargeW256Literals covers spec.md §8 scenario 5: addition of
// two large u256 literals, confirming the limb-based literal encoding
// compiles without truncation (spec.md §9's "never native 64-bit with
// silent truncation").
func TestScenario5LargeW256Literals(t *testing.T) {
	const src = "let x:u256:=2156795733811448305138118958686944006956945342567680366977754542899210 " +
		"let y:u256:=215679573381144830513811895868694400695694534256768036697775454289921 " +
		"add(x,y)"
	asm, e := compileForTest(t, src)
	if !strings.Contains(asm, "push256") {
		t.Fatalf("expected a push256 literal encoding:\n%s", asm)
	}
	if e.stack.Len() != 24 {
		t.Fatalf("expected 24 cells (x, y, and the add result, each 8 cells), got %d\n%s", e.stack.Len(), asm)
	}
}

// TestScenario6MemoryRoundTrip covers spec.md §8 scenario 6: a store
// followed by a load at the same address round-trips the value.
func TestScenario6MemoryRoundTrip(t *testing.T) {
	asm, e := compileForTest(t, "mstore(100, 700:u32) mload(100)")
	if !strings.Contains(asm, "mem.store") || !strings.Contains(asm, "mload") {
		t.Fatalf("expected both mem.store and mload in assembly:\n%s", asm)
	}
	if e.stack.Len() != 8 {
		t.Fatalf("expected 8 cells (mload with no expected width is u256), got %d\n%s", e.stack.Len(), asm)
	}
}

// TestStackBalanceBlock covers spec.md §8's "stack balance" invariant for a
// plain statement block: net cell growth equals the sum of its statements'
// value arity, here two u32 declarations contributing 1 cell each.
func TestStackBalanceBlock(t *testing.T) {
	_, e := compileForTest(t, "let a:u32:=1 let b:u32:=2")
	if e.stack.Len() != 2 {
		t.Fatalf("expected 2 live cells after two u32 decls, got %d", e.stack.Len())
	}
}

// TestReconciliationCorrectness covers spec.md §8's "reconciliation
// correctness" invariant: after compiling an if whose body reassigns a
// binder, the stack's name-sets still locate that binder at the depth the
// reconciliation target specified for it, not a stale pre-branch depth.
func TestReconciliationCorrectness(t *testing.T) {
	const src = "let x:u32:=1 let y:u32:=2 if lt(x,y){x:=9}"
	_, e := compileForTest(t, src)
	depth, ok := e.stack.NearestDepth("x")
	if !ok {
		t.Fatalf("expected x to still be findable on the stack after reconciliation")
	}
	if depth != 1 {
		t.Fatalf("expected x at depth 1 (y on top), got depth %d", depth)
	}
}

// TestSwitchDefaultSkippedWhenCaseMatches guards against compileSwitch
// running its default block unconditionally: with x == 1, case 1 must be
// the one live assignment to y, not the default's.
func TestSwitchDefaultSkippedWhenCaseMatches(t *testing.T) {
	const src = "let x:u32:=1 let y:u32:=0 switch x case 1 {y:=10} default {y:=20}"
	asm, e := compileForTest(t, src)
	if !strings.Contains(asm, "iszero") {
		t.Fatalf("expected the default block to be guarded by iszero(matched):\n%s", asm)
	}
	depth, ok := e.stack.NearestDepth("y")
	if !ok {
		t.Fatalf("expected y to still be findable on the stack after the switch")
	}
	if depth != 0 {
		t.Fatalf("expected y on top of stack, got depth %d\n%s", depth, asm)
	}
}

// sanity that compileForTest's harness itself doesn't panic on an empty
// program, guarding the other tests' assumptions about compileBlockBody.
func TestEmptyProgramCompiles(t *testing.T) {
	asm, e := compileForTest(t, "")
	if e.stack.Len() != 0 {
		t.Fatalf("expected empty stack for empty program, got %d\n%s", e.stack.Len(), asm)
	}
}
