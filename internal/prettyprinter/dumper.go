package prettyprinter

import (
	"bytes"
	"fmt"

	"github.com/papyruslang/papyrus/internal/ast"
)

// Dumper renders a node as an indented debug tree: one line per node naming
// its kind and scalar fields, children nested beneath. Unlike Printer this
// is not meant to round-trip through the parser; it exists for inspecting
// intermediate optimizer/inferrer output.
type Dumper struct {
	buf    bytes.Buffer
	indent int
}

// NewDumper returns a fresh Dumper.
func NewDumper() *Dumper { return &Dumper{} }

// Dump renders prog's tree to a string.
func Dump(prog *ast.Program) string {
	d := NewDumper()
	if prog.Body != nil {
		prog.Body.Accept(d)
	}
	return d.String()
}

func (d *Dumper) String() string { return d.buf.String() }

func (d *Dumper) line(format string, args ...interface{}) {
	for i := 0; i < d.indent; i++ {
		d.buf.WriteString("  ")
	}
	fmt.Fprintf(&d.buf, format, args...)
	d.buf.WriteByte('\n')
}

func (d *Dumper) child(n ast.Node) {
	if n == nil {
		d.indent++
		d.line("<nil>")
		d.indent--
		return
	}
	d.indent++
	n.Accept(d)
	d.indent--
}

func (d *Dumper) childBlock(b *ast.Block) {
	if b == nil {
		d.indent++
		d.line("<nil block>")
		d.indent--
		return
	}
	d.child(b)
}

func (d *Dumper) VisitNumLit(n *ast.NumLit) {
	v := "<nil>"
	if n.Value != nil {
		v = n.Value.String()
	}
	d.line("NumLit %s %s", v, n.Width)
}

func (d *Dumper) VisitStrLit(n *ast.StrLit) {
	d.line("StrLit %q", string(n.Bytes))
}

func (d *Dumper) VisitBoolLit(n *ast.BoolLit) {
	d.line("BoolLit %v %s", n.Flag, n.Width)
}

func (d *Dumper) VisitVar(n *ast.Var) {
	d.line("Var %s %s", n.Name, n.Width)
}

func (d *Dumper) VisitCall(n *ast.Call) {
	d.line("Call %s", n.Name)
	for _, a := range n.Args {
		d.child(a)
	}
}

func (d *Dumper) VisitIf(n *ast.If) {
	d.line("If")
	d.child(n.Cond)
	d.childBlock(n.Body)
}

func (d *Dumper) VisitSwitch(n *ast.Switch) {
	d.line("Switch %s", n.Width)
	d.child(n.Scrutinee)
	for _, c := range n.Cases {
		d.child(c)
	}
	if n.Default != nil {
		d.indent++
		d.line("Default")
		d.childBlock(n.Default)
		d.indent--
	}
}

func (d *Dumper) VisitCase(n *ast.Case) {
	d.line("Case")
	d.child(n.Literal)
	d.childBlock(n.Body)
}

func (d *Dumper) VisitAssign(n *ast.Assign) {
	d.line("Assign %v", n.Targets)
	d.child(n.Rhs)
}

func (d *Dumper) VisitDecl(n *ast.Decl) {
	d.line("Decl %v", n.Binders)
	if n.Rhs != nil {
		d.child(n.Rhs)
	}
}

func (d *Dumper) VisitFor(n *ast.For) {
	d.line("For")
	d.indent++
	d.line("init")
	d.childBlock(n.Init)
	d.line("cond")
	d.child(n.Cond)
	d.line("step")
	d.childBlock(n.Step)
	d.line("body")
	d.childBlock(n.Body)
	d.indent--
}

func (d *Dumper) VisitRepeat(n *ast.Repeat) {
	d.line("Repeat %d", n.Count)
	d.childBlock(n.Body)
}

func (d *Dumper) VisitFnDef(n *ast.FnDef) {
	d.line("FnDef %s params=%v returns=%v", n.Name, n.Params, n.Returns)
	d.childBlock(n.Body)
}

func (d *Dumper) VisitBlock(n *ast.Block) {
	d.line("Block")
	for _, e := range n.Exprs {
		d.child(e)
	}
}

func (d *Dumper) VisitBreak(n *ast.Break)       { d.line("Break") }
func (d *Dumper) VisitContinue(n *ast.Continue) { d.line("Continue") }
func (d *Dumper) VisitLeave(n *ast.Leave)       { d.line("Leave") }
