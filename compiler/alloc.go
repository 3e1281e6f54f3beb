package compiler

import "fmt"

// RegAcc is a monotonically increasing scoreboard-register name counter.
// It is reset at the start of every top-level expression/statement, so
// register names allocated within one expression never collide.
type RegAcc struct {
	next int
}

// New allocates a fresh register name, "r0", "r1", ....
func (a *RegAcc) New() Location {
	name := fmt.Sprintf("r%d", a.next)
	a.next++
	return Register(name)
}

// Mark returns the next index that will be allocated, for caller-saves
// bookkeeping (spilling every register index currently live at a call
// site).
func (a *RegAcc) Mark() int { return a.next }

// Reset restarts allocation at 0.
func (a *RegAcc) Reset() { a.next = 0 }

// ObjAcc is a monotonically increasing per-frame scratch-object counter.
// Scratch objects are never reclaimed within a frame; they are discarded
// wholesale when the frame is popped.
type ObjAcc struct {
	next int
}

// New allocates a fresh scratch-object memory location,
// memory:stack frame[$(base_index)].%objN.
func (a *ObjAcc) New() Location {
	name := fmt.Sprintf("%%obj%d", a.next)
	a.next++
	return Memory("memory:stack", fmt.Sprintf("frame[$(base_index)].%s", name))
}
