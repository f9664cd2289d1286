// Package diagnostics implements the closed set of error Kinds the
// compilation pipeline can raise (spec.md §7): SyntaxError, ScopeError,
// TypeError, UnsupportedFeature, ArithmeticPanic, and IOError.
package diagnostics

import (
	"fmt"

	"github.com/papyruslang/papyrus/internal/token"
)

// Kind is a closed sum of the error categories the pipeline can raise.
type Kind int

const (
	Syntax Kind = iota
	Scope
	Type
	UnsupportedFeature
	ArithmeticPanic
	IO
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Scope:
		return "ScopeError"
	case Type:
		return "TypeError"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case ArithmeticPanic:
		return "ArithmeticPanic"
	case IO:
		return "IOError"
	default:
		return "Error"
	}
}

// Error is a single diagnostic. It carries enough position information to
// point a reader at the offending source text.
type Error struct {
	Kind    Kind
	File    string
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Kind, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an Error positioned at tok.
func New(kind Kind, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// Newf builds an Error with no source position (used for IOError and other
// diagnostics that are not anchored to a token).
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithFile returns a copy of err annotated with a source file path.
func (e *Error) WithFile(file string) *Error {
	cp := *e
	cp.File = file
	return &cp
}
