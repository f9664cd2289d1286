package backend

// ProcShape is the stack effect of a call to a procedure: the cells it
// consumes and the cells it leaves behind immediately after it returns
// (spec.md §3: "Procedure table").
type ProcShape struct {
	ParamCells  int
	ReturnCells int
	ReturnNames []string // one name per declared return (not per cell), in declaration order
}

// ProcTable maps a procedure name to its recorded call shape. Insertion
// order is irrelevant (spec.md §9).
type ProcTable map[string]ProcShape

func newProcTable() ProcTable { return make(ProcTable) }
