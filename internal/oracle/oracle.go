// Package oracle declares the Executor boundary spec.md §1 scopes out of
// this module: something that actually runs emitted StackVM assembly.
// No implementation lives here — the REPL's `res` command programs
// against the interface only; no test uses it.
package oracle

// Executor runs asm (StackVM assembly text, as produced by
// internal/backend.Compile) against an initial stack and returns the
// final stack, top last. initialStack and the returned stack are both
// ordered bottom-first, matching spec.md §8's "stack balance" framing.
type Executor interface {
	Run(asm string, initialStack []uint64) ([]uint64, error)
}
