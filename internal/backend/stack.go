package backend

import "github.com/papyruslang/papyrus/internal/width"

// Slot is one VM operand cell, labeled with the set of source names
// currently equal to its value (spec.md §3: "union-find-like"; spec.md §9
// notes a flat ordered sequence of small sets suffices, no union-find is
// required).
type Slot struct {
	names map[string]bool
}

func newSlot(names ...string) Slot {
	s := Slot{names: make(map[string]bool, len(names))}
	for _, n := range names {
		s.names[n] = true
	}
	return s
}

// Has reports whether name is one of this slot's current names.
func (s Slot) Has(name string) bool { return s.names[name] }

// NameSet returns a copy of the slot's current name set, for reconciliation
// target comparisons.
func (s Slot) NameSet() map[string]bool {
	out := make(map[string]bool, len(s.names))
	for n := range s.names {
		out[n] = true
	}
	return out
}

// Stack is the emitter's compile-time model of the VM's operand stack. The
// last element of slots is the top (idiomatic Go append/pop); depth 0 in
// the public API always means "the current top", matching spec.md §3's
// "index 0 = top" regardless of the underlying slice orientation.
type Stack struct {
	slots []Slot
}

// Len is the number of live VM cells.
func (s *Stack) Len() int { return len(s.slots) }

// depthToIndex converts a from-top depth to a slice index.
func (s *Stack) depthToIndex(depth int) int { return len(s.slots) - 1 - depth }

// At returns the slot depth cells from the top (0 = top).
func (s *Stack) At(depth int) Slot { return s.slots[s.depthToIndex(depth)] }

// PushCells pushes count new cells, all bearing names, nearest-to-top last
// (the last of the count cells pushed becomes the new top).
func (s *Stack) PushCells(count int, names ...string) {
	for i := 0; i < count; i++ {
		s.slots = append(s.slots, newSlot(names...))
	}
}

// PushWidth pushes the number of cells w occupies, all labeled names.
func (s *Stack) PushWidth(w width.Width, names ...string) {
	s.PushCells(w.Cells(), names...)
}

// DropTop removes the top n cells.
func (s *Stack) DropTop(n int) {
	s.slots = s.slots[:len(s.slots)-n]
}

// AddName labels the slot at depth with an additional name (aliasing, per
// spec.md §4.4's Assign-of-a-bare-Var rule).
func (s *Stack) AddName(depth int, name string) {
	s.slots[s.depthToIndex(depth)].names[name] = true
}

// RemoveName strips name from every slot that carries it (used when a
// variable is reassigned to a freshly computed value: the old binding no
// longer applies anywhere on the stack).
func (s *Stack) RemoveName(name string) {
	for i := range s.slots {
		delete(s.slots[i].names, name)
	}
}

// NearestDepth finds the depth (from top) of the slot nearest the top that
// carries name — spec.md §4.4: "locates the nearest slot whose name set
// contains n". For a multi-cell variable this is the shallowest cell of
// its group; the group's remaining cells are the next w.Cells()-1 deeper
// slots; see GroupDepths.
func (s *Stack) NearestDepth(name string) (int, bool) {
	for depth := 0; depth < len(s.slots); depth++ {
		if s.At(depth).Has(name) {
			return depth, true
		}
	}
	return 0, false
}

// GroupDepths returns the w.Cells() depths occupied by name's nearest
// binding, shallowest (nearest top) first.
func (s *Stack) GroupDepths(name string, w width.Width) ([]int, bool) {
	shallow, ok := s.NearestDepth(name)
	if !ok {
		return nil, false
	}
	depths := make([]int, w.Cells())
	for i := range depths {
		depths[i] = shallow + i
	}
	return depths, true
}

// MoveDown removes the current top slot and reinserts it at depth n from
// the (new) top, shifting the slots that were between depth 1 and n
// shallower by one (spec.md §4.4 "movdn.n").
func (s *Stack) MoveDown(n int) {
	top := s.slots[len(s.slots)-1]
	rest := s.slots[:len(s.slots)-1]
	idx := len(rest) - n
	if idx < 0 {
		idx = 0
	}
	out := make([]Slot, 0, len(rest)+1)
	out = append(out, rest[:idx]...)
	out = append(out, top)
	out = append(out, rest[idx:]...)
	s.slots = out
}

// Snapshot captures the current stack's name-sets for later reconciliation
// (spec.md §4.4: loop-top targets, block-end targets).
func (s *Stack) Snapshot() []map[string]bool {
	out := make([]map[string]bool, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.NameSet()
	}
	return out
}
