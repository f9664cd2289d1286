// Package ast defines the YulLite abstract syntax tree: a recursive sum of
// tagged node variants (spec.md §3). Every node implements Node and accepts
// a Visitor, following the accept/visit split the wider parser/codegen
// machinery is built around (no aliased mutation: each node owns its
// children outright).
package ast

import (
	"math/big"

	"github.com/papyruslang/papyrus/internal/token"
	"github.com/papyruslang/papyrus/internal/width"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expr is a Node that produces a value (spec.md §3's Expression tree).
type Expr interface {
	Node
	exprNode()
	GetToken() token.Token
}

// Visitor is the double-dispatch partner of Node.Accept, implemented by
// internal/prettyprinter's Printer and Dumper. internal/optimizer does not
// use it; its rewrites go through that package's own Visitor and Rewrite.
type Visitor interface {
	VisitNumLit(n *NumLit)
	VisitStrLit(n *StrLit)
	VisitBoolLit(n *BoolLit)
	VisitVar(n *Var)
	VisitCall(n *Call)
	VisitIf(n *If)
	VisitSwitch(n *Switch)
	VisitCase(n *Case)
	VisitAssign(n *Assign)
	VisitDecl(n *Decl)
	VisitFor(n *For)
	VisitRepeat(n *Repeat)
	VisitFnDef(n *FnDef)
	VisitBlock(n *Block)
	VisitBreak(n *Break)
	VisitContinue(n *Continue)
	VisitLeave(n *Leave)
}

// NumLit is a (possibly arbitrary-precision) numeric literal. Value is kept
// as *big.Int throughout parsing and constant folding (spec.md §9: never
// native 64-bit with silent truncation); it is only narrowed to eight
// 32-bit words (or one, for W32) at the code-generator/codec boundary.
type NumLit struct {
	Token token.Token
	Value *big.Int
	Width width.Width
}

func (n *NumLit) Accept(v Visitor)      { v.VisitNumLit(n) }
func (n *NumLit) exprNode()             {}
func (n *NumLit) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NumLit) GetToken() token.Token { return n.Token }

// StrLit is a string literal. It carries no Width field: the code generator
// always pushes it as a single W32 cell (its byte length). The inferrer
// does not restrict where it may appear.
type StrLit struct {
	Token token.Token
	Bytes []byte
}

func (n *StrLit) Accept(v Visitor)      { v.VisitStrLit(n) }
func (n *StrLit) exprNode()             {}
func (n *StrLit) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StrLit) GetToken() token.Token { return n.Token }

// BoolLit is a boolean literal, compiled as 0/1 of its inferred width.
type BoolLit struct {
	Token token.Token
	Flag  bool
	Width width.Width
}

func (n *BoolLit) Accept(v Visitor)      { v.VisitBoolLit(n) }
func (n *BoolLit) exprNode()             {}
func (n *BoolLit) TokenLiteral() string  { return n.Token.Lexeme }
func (n *BoolLit) GetToken() token.Token { return n.Token }

// Var is a reference to the innermost enclosing binder with this name
// (spec.md §3 invariant 3).
type Var struct {
	Token token.Token
	Name  string
	Width width.Width
}

func (n *Var) Accept(v Visitor)      { v.VisitVar(n) }
func (n *Var) exprNode()             {}
func (n *Var) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Var) GetToken() token.Token { return n.Token }

// Call is both a primitive operation (add, sub, mstore, ...) and a
// user-procedure invocation; the two are distinguished at code-generation
// time by looking Name up in the procedure table.
type Call struct {
	Token         token.Token
	Name          string
	Args          []Expr
	ParamWidths   []width.Width
	ReturnWidths  []width.Width
}

func (n *Call) Accept(v Visitor)      { v.VisitCall(n) }
func (n *Call) exprNode()             {}
func (n *Call) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Call) GetToken() token.Token { return n.Token }

// If compiles to a zero-net-effect conditional body.
type If struct {
	Token token.Token
	Cond  Expr
	Body  *Block
}

func (n *If) Accept(v Visitor)      { v.VisitIf(n) }
func (n *If) exprNode()             {}
func (n *If) TokenLiteral() string  { return n.Token.Lexeme }
func (n *If) GetToken() token.Token { return n.Token }

// Case is one arm of a Switch.
type Case struct {
	Token   token.Token
	Literal *NumLit
	Body    *Block
}

func (n *Case) Accept(v Visitor)      { v.VisitCase(n) }
func (n *Case) exprNode()             {}
func (n *Case) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Case) GetToken() token.Token { return n.Token }

// Switch dispatches on Scrutinee's value across Cases, falling back to
// Default if present.
type Switch struct {
	Token      token.Token
	Scrutinee  Expr
	Cases      []*Case
	Default    *Block
	Width      width.Width
}

func (n *Switch) Accept(v Visitor)      { v.VisitSwitch(n) }
func (n *Switch) exprNode()             {}
func (n *Switch) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Switch) GetToken() token.Token { return n.Token }

// Assign rebinds Targets (which must already be in scope) to the values
// produced by Rhs (spec.md §3 invariant 5: lengths must match).
type Assign struct {
	Token   token.Token
	Targets []string
	Widths  []width.Width
	Rhs     Expr
}

func (n *Assign) Accept(v Visitor)      { v.VisitAssign(n) }
func (n *Assign) exprNode()             {}
func (n *Assign) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Assign) GetToken() token.Token { return n.Token }

// Binder is one (name, width) pair declared by a Decl, FnDef parameter, or
// FnDef return.
type Binder struct {
	Name  string
	Width width.Width
}

// Decl introduces new bindings, optionally initialized by Rhs (spec.md §3
// invariant 4: Binders and Rhs.ReturnWidths must agree in count).
type Decl struct {
	Token   token.Token
	Binders []Binder
	Rhs     Expr // nil for `let x` with no initializer
}

func (n *Decl) Accept(v Visitor)      { v.VisitDecl(n) }
func (n *Decl) exprNode()             {}
func (n *Decl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Decl) GetToken() token.Token { return n.Token }

// For is the parser's only loop form; the optimizer may promote a
// qualifying For to a Repeat (spec.md §4.3).
type For struct {
	Token token.Token
	Init  *Block
	Cond  Expr
	Step  *Block
	Body  *Block
}

func (n *For) Accept(v Visitor)      { v.VisitFor(n) }
func (n *For) exprNode()             {}
func (n *For) TokenLiteral() string  { return n.Token.Lexeme }
func (n *For) GetToken() token.Token { return n.Token }

// Repeat is never produced by the parser; it is introduced by the
// for-to-repeat optimization pass (spec.md §4.3).
type Repeat struct {
	Token token.Token
	Count uint32
	Body  *Block
}

func (n *Repeat) Accept(v Visitor)      { v.VisitRepeat(n) }
func (n *Repeat) exprNode()             {}
func (n *Repeat) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Repeat) GetToken() token.Token { return n.Token }

// FnDef declares a user procedure. Inside the body the set of live names is
// Params ∪ Returns ∪ locals; Returns are pre-bound to zero of their
// declared width (spec.md §3 invariant 6).
type FnDef struct {
	Token   token.Token
	Name    string
	Params  []Binder
	Returns []Binder
	Body    *Block
}

func (n *FnDef) Accept(v Visitor)      { v.VisitFnDef(n) }
func (n *FnDef) exprNode()             {}
func (n *FnDef) TokenLiteral() string  { return n.Token.Lexeme }
func (n *FnDef) GetToken() token.Token { return n.Token }

// Block is an ordered sequence of expressions/statements sharing one
// lexical scope.
type Block struct {
	Token token.Token // '{'
	Exprs []Expr
}

func (n *Block) Accept(v Visitor)      { v.VisitBlock(n) }
func (n *Block) exprNode()             {}
func (n *Block) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Block) GetToken() token.Token { return n.Token }

// Break exits the innermost enclosing Repeat/For.
type Break struct {
	Token token.Token
}

func (n *Break) Accept(v Visitor)      { v.VisitBreak(n) }
func (n *Break) exprNode()             {}
func (n *Break) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Break) GetToken() token.Token { return n.Token }

// Continue skips to the next iteration of the innermost enclosing
// Repeat/For.
type Continue struct {
	Token token.Token
}

func (n *Continue) Accept(v Visitor)      { v.VisitContinue(n) }
func (n *Continue) exprNode()             {}
func (n *Continue) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Continue) GetToken() token.Token { return n.Token }

// Leave exits the enclosing FnDef body immediately.
type Leave struct {
	Token token.Token
}

func (n *Leave) Accept(v Visitor)      { v.VisitLeave(n) }
func (n *Leave) exprNode()             {}
func (n *Leave) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Leave) GetToken() token.Token { return n.Token }

// Program is the root of every AST the parser produces. A top-level
// `object "name" { code { ... } }` wrapper is unwrapped into Body by the
// parser (spec.md §4.1); File records the originating path for
// diagnostics. FnDef nodes may appear anywhere in Body's statement
// sequence, exactly where the source wrote them; the code generator picks
// them out in its own pre-pass (spec.md §4.4: "Emitted once before the
// main program").
type Program struct {
	File string
	Body *Block
}

func (n *Program) TokenLiteral() string {
	if n.Body != nil {
		return n.Body.TokenLiteral()
	}
	return ""
}
func (n *Program) Accept(v Visitor) {
	if n.Body != nil {
		n.Body.Accept(v)
	}
}
