package compiler

import (
	"fmt"

	"github.com/rubiojr/mcscript/runtime"
)

// LocKind tags the three variants a Location can take.
type LocKind int

const (
	// LocRegister is a scoreboard key under the fixed "registers" objective.
	LocRegister LocKind = iota
	// LocMemory is a direct NBT path rooted at a named storage store.
	LocMemory
	// LocMemoryRef is an indirect location: the cell at (Store, Path) holds
	// a string "<store> <path>" denoting the real target, dereferenced only
	// through the mcscript helper scripts.
	LocMemoryRef
)

// Location is the generator's uniform three-variant sum for "where a
// value lives". Every expression evaluates to one.
type Location struct {
	Kind  LocKind
	Reg   string // LocRegister
	Store string // LocMemory, LocMemoryRef
	Path  string // LocMemory, LocMemoryRef
}

// Register builds a scoreboard-register location.
func Register(name string) Location { return Location{Kind: LocRegister, Reg: name} }

// Memory builds a direct storage location.
func Memory(store, path string) Location { return Location{Kind: LocMemory, Store: store, Path: path} }

// MemoryRef builds an indirect storage location.
func MemoryRef(store, path string) Location {
	return Location{Kind: LocMemoryRef, Store: store, Path: path}
}

// emitter is the minimal surface mov needs from the currently active
// script: append a command line, optionally formatted.
type emitter interface {
	Line(string)
	Linef(format string, args ...any)
}

func storagePath(store, path string) string { return store + " " + path }

func helperCall(ns string) string {
	return fmt.Sprintf("function %s:%s with storage memory:temp", runtime.Namespace, ns)
}

func setTempLiteral(s emitter, field, literal string) {
	s.Linef(`data modify storage memory:temp %s set value "%s"`, field, literal)
}

// mov emits commands that move src into dest, dispatching on the 3x3
// combination of destination and source kinds. It is the only way any
// expression's value is transferred between locations.
func mov(s emitter, dest, src Location) {
	switch dest.Kind {
	case LocRegister:
		switch src.Kind {
		case LocRegister:
			s.Linef("scoreboard players operation %s registers = %s registers", dest.Reg, src.Reg)
		case LocMemory:
			s.Linef("execute store result score %s registers run data get storage %s", dest.Reg, storagePath(src.Store, src.Path))
		case LocMemoryRef:
			s.Linef(`data modify storage memory:temp src_path set from storage %s`, storagePath(src.Store, src.Path))
			setTempLiteral(s, "target_reg", dest.Reg)
			s.Line(helperCall("mov_r_m"))
		}
	case LocMemory:
		switch src.Kind {
		case LocRegister:
			s.Linef("execute store result storage %s int 1 run scoreboard players get %s registers", storagePath(dest.Store, dest.Path), src.Reg)
		case LocMemory:
			s.Linef("data modify storage %s set from storage %s", storagePath(dest.Store, dest.Path), storagePath(src.Store, src.Path))
		case LocMemoryRef:
			s.Linef(`data modify storage memory:temp src_path set from storage %s`, storagePath(src.Store, src.Path))
			setTempLiteral(s, "target_path", storagePath(dest.Store, dest.Path))
			s.Line(helperCall("mov_m_m"))
		}
	case LocMemoryRef:
		switch src.Kind {
		case LocRegister:
			s.Linef(`data modify storage memory:temp target_path set from storage %s`, storagePath(dest.Store, dest.Path))
			setTempLiteral(s, "src_reg", src.Reg)
			s.Line(helperCall("mov_m_r"))
		case LocMemory:
			s.Linef(`data modify storage memory:temp target_path set from storage %s`, storagePath(dest.Store, dest.Path))
			setTempLiteral(s, "src_path", storagePath(src.Store, src.Path))
			s.Line(helperCall("mov_m_m"))
		case LocMemoryRef:
			s.Linef(`data modify storage memory:temp target_path set from storage %s`, storagePath(dest.Store, dest.Path))
			s.Linef(`data modify storage memory:temp src_path set from storage %s`, storagePath(src.Store, src.Path))
			s.Line(helperCall("mov_m_m"))
		}
	}
}

// movImmediate handles the scalar-literal source case directly for
// Register and Memory destinations; for MemoryRef it first materializes
// the literal into a fresh scratch object, then mov's that object into
// the ref.
func movImmediate(s emitter, dest Location, literal int32, objs *ObjAcc) {
	switch dest.Kind {
	case LocRegister:
		s.Linef("scoreboard players set %s registers %d", dest.Reg, literal)
	case LocMemory:
		s.Linef("data modify storage %s set value %d", storagePath(dest.Store, dest.Path), literal)
	case LocMemoryRef:
		scratch := objs.New()
		movImmediate(s, scratch, literal, objs)
		mov(s, dest, scratch)
	}
}

// toReg is the idempotent promotion used to coerce operands of
// arithmetic, comparison, and predicate commands (all of which require
// register operands): if src is already a Register it is returned
// unchanged, otherwise a fresh register is allocated and src is mov'ed
// into it.
func toReg(s emitter, src Location, regs *RegAcc) Location {
	if src.Kind == LocRegister {
		return src
	}
	dest := regs.New()
	mov(s, dest, src)
	return dest
}
