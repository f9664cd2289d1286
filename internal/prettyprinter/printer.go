// Package prettyprinter renders an AST back to YulLite source text (C6): a
// small buffer-and-indent writer driven by the ast.Visitor double
// dispatch, one Visit method per node kind.
package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/papyruslang/papyrus/internal/ast"
)

// Printer renders a Program (or any Expr) as YulLite source.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

// NewPrinter returns a fresh, zero-indent Printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders prog to a string.
func Print(prog *ast.Program) string {
	p := NewPrinter()
	prog.Accept(p)
	return p.String()
}

func (p *Printer) String() string { return p.buf.String() }

func (p *Printer) write(s string) { p.buf.WriteString(s) }

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *Printer) binder(b ast.Binder) {
	p.write(b.Name)
	if b.Width != 0 {
		p.write(":")
		p.write(b.Width.String())
	}
}

func (p *Printer) binderList(bs []ast.Binder) {
	for i, b := range bs {
		if i > 0 {
			p.write(", ")
		}
		p.binder(b)
	}
}

func (p *Printer) block(b *ast.Block) {
	if b == nil {
		p.write("{}")
		return
	}
	b.Accept(p)
}

func (p *Printer) VisitNumLit(n *ast.NumLit) {
	if n.Value != nil {
		p.write(n.Value.String())
	} else {
		p.write("0")
	}
}

func (p *Printer) VisitStrLit(n *ast.StrLit) {
	p.write(strconv.Quote(string(n.Bytes)))
}

func (p *Printer) VisitBoolLit(n *ast.BoolLit) {
	if n.Flag {
		p.write("true")
	} else {
		p.write("false")
	}
}

func (p *Printer) VisitVar(n *ast.Var) {
	p.write(n.Name)
}

func (p *Printer) VisitCall(n *ast.Call) {
	p.write(n.Name)
	p.write("(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitIf(n *ast.If) {
	p.write("if ")
	n.Cond.Accept(p)
	p.write(" ")
	p.block(n.Body)
}

func (p *Printer) VisitSwitch(n *ast.Switch) {
	p.write("switch ")
	n.Scrutinee.Accept(p)
	p.write("\n")
	for _, c := range n.Cases {
		p.writeIndent()
		c.Accept(p)
		p.write("\n")
	}
	if n.Default != nil {
		p.writeIndent()
		p.write("default ")
		p.block(n.Default)
		p.write("\n")
	}
}

func (p *Printer) VisitCase(n *ast.Case) {
	p.write("case ")
	if n.Literal != nil {
		n.Literal.Accept(p)
	}
	p.write(" ")
	p.block(n.Body)
}

func (p *Printer) VisitAssign(n *ast.Assign) {
	for i, t := range n.Targets {
		if i > 0 {
			p.write(", ")
		}
		p.write(t)
	}
	p.write(" := ")
	n.Rhs.Accept(p)
}

func (p *Printer) VisitDecl(n *ast.Decl) {
	p.write("let ")
	p.binderList(n.Binders)
	if n.Rhs != nil {
		p.write(" := ")
		n.Rhs.Accept(p)
	}
}

func (p *Printer) VisitFor(n *ast.For) {
	p.write("for ")
	p.block(n.Init)
	p.write(" ")
	n.Cond.Accept(p)
	p.write(" ")
	p.block(n.Step)
	p.write(" ")
	p.block(n.Body)
}

func (p *Printer) VisitRepeat(n *ast.Repeat) {
	p.write("repeat ")
	p.write(strconv.FormatUint(uint64(n.Count), 10))
	p.write(" ")
	p.block(n.Body)
}

func (p *Printer) VisitFnDef(n *ast.FnDef) {
	p.write("function ")
	p.write(n.Name)
	p.write("(")
	p.binderList(n.Params)
	p.write(")")
	if len(n.Returns) > 0 {
		p.write(" -> ")
		p.binderList(n.Returns)
	}
	p.write(" ")
	p.block(n.Body)
}

func (p *Printer) VisitBlock(n *ast.Block) {
	p.write("{\n")
	p.indent++
	for _, e := range n.Exprs {
		p.writeIndent()
		e.Accept(p)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) VisitBreak(n *ast.Break)       { p.write("break") }
func (p *Printer) VisitContinue(n *ast.Continue) { p.write("continue") }
func (p *Printer) VisitLeave(n *ast.Leave)       { p.write("leave") }
