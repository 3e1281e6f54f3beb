// Package compiler is the code generator: the pass that lowers a
// type-checked-as-it-goes AST into the command scripts of an in-memory
// Pack. It has no optimization passes, performs no garbage collection of
// storage-allocated objects, and supports only 32-bit integers and
// (possibly nested) arrays of them.
package compiler

import (
	"fmt"

	"github.com/rubiojr/mcscript/ast"
	"github.com/rubiojr/mcscript/pack"
	"github.com/rubiojr/mcscript/runtime"
)

// Unit pairs one parsed compile unit with the namespace name its
// definitions are emitted under.
type Unit struct {
	Namespace string
	Program   *ast.CompileUnit
}

// Options controls cosmetic aspects of the emitted pack; none of them
// affect codegen semantics.
type Options struct {
	PackName        string
	PackDescription string
	PackFormat      int
}

// DefaultOptions returns the conventional pack metadata used when the
// caller doesn't care.
func DefaultOptions() Options {
	return Options{PackName: "mcscript", PackDescription: "compiled mcscript program", PackFormat: 48}
}

// Generator orchestrates the two-pass compile: a global scan populating
// the function and variable tables, then per-namespace emission. It
// holds no state shared across Generate calls — a fresh Generator is
// created by Generate for each invocation.
type Generator struct {
	pack  *pack.Pack
	vars  *VarTable
	funcs *FuncTable

	// per-namespace/per-script emission state, reset as emission moves
	// between namespaces, functions, and (for registers) expressions.
	ns     *pack.Namespace
	nsName string
	script *pack.Script

	regs *RegAcc
	objs *ObjAcc

	labelCounter  int    // per-function monotonic counter for <ident>-label_n
	funcIdent     string // current function's name, for label naming
	breakStack    []string
	continueStack []string

	customCmdCounter map[string]int // per-namespace counter for custom_cmd_k
}

// Generate runs the full two-pass compile over units and returns the
// assembled pack, or the first semantic error encountered.
func Generate(units []Unit, opts Options) (*pack.Pack, error) {
	g := &Generator{
		pack:             pack.New(opts.PackName, opts.PackDescription, opts.PackFormat),
		vars:             NewVarTable(),
		funcs:            NewFuncTable(),
		customCmdCounter: make(map[string]int),
	}
	runtime.Install(g.pack)

	if err := g.scan(units); err != nil {
		return nil, err
	}
	for _, u := range units {
		if err := g.emitUnit(u); err != nil {
			return nil, err
		}
	}
	return g.pack, nil
}

// scan is the global scan pass: populates the function table and the
// global-variable table for every unit before any emission begins, so
// cross-namespace forward references resolve without ordering
// constraints.
func (g *Generator) scan(units []Unit) error {
	for _, u := range units {
		for _, gd := range u.Program.Globals {
			switch def := gd.(type) {
			case *ast.FuncDef:
				if err := g.funcs.New(u.Namespace, def); err != nil {
					return err
				}
			case *ast.VariableDef:
				if _, err := g.vars.NewGlobal(u.Namespace, def.Name, def.Type); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// emitUnit emits one namespace's init script and every function defined
// in it.
func (g *Generator) emitUnit(u Unit) error {
	g.nsName = u.Namespace
	g.ns = g.pack.Namespace(u.Namespace)

	if err := g.emitInit(u.Program); err != nil {
		return err
	}
	for _, gd := range u.Program.Globals {
		fd, ok := gd.(*ast.FuncDef)
		if !ok {
			continue
		}
		if err := g.emitFunction(fd); err != nil {
			return err
		}
	}
	return nil
}

// emitInit emits the namespace's init script: global initializers
// evaluated in source order, under the same frame prologue/epilogue
// discipline as a function, so initializer expressions can freely use
// scratch stack storage.
func (g *Generator) emitInit(prog *ast.CompileUnit) error {
	g.script = g.ns.NewScript("init")
	g.regs = &RegAcc{}
	g.objs = &ObjAcc{}
	g.funcIdent = "init"
	g.labelCounter = 0

	g.emitPrologue()
	g.vars.EnterScope()
	for _, gd := range prog.Globals {
		vd, ok := gd.(*ast.VariableDef)
		if !ok {
			continue
		}
		g.regs.Reset()
		val, err := g.eval(vd.Init)
		if err != nil {
			g.vars.LeaveScope()
			return err
		}
		if !val.Type.Equal(vd.Type) {
			g.vars.LeaveScope()
			return errTypeMismatch(g.nsName, vd.Init.ExpSpan(), vd.Type, val.Type)
		}
		gv, err := g.vars.Query(g.nsName, "", vd.Name)
		if err != nil {
			g.vars.LeaveScope()
			return err
		}
		mov(g.script, globalLocation(gv), val.Location)
	}
	g.vars.LeaveScope()
	g.emitEpilogue()
	return nil
}

// emitFunction emits a function's entry script (prologue; jump to
// label_0; epilogue) plus its body chain of label micro-scripts.
func (g *Generator) emitFunction(fd *ast.FuncDef) error {
	entry := g.ns.NewScript(fd.Name.Text)
	g.script = entry
	g.regs = &RegAcc{}
	g.objs = &ObjAcc{}
	g.funcIdent = fd.Name.Text
	g.labelCounter = 0
	g.breakStack = nil
	g.continueStack = nil

	g.emitPrologue()
	label0 := g.nextLabel()
	g.callFunction(g.nsName, label0)
	g.emitEpilogue()

	g.script = g.ns.NewScript(label0)
	g.vars.EnterScope()
	g.vars.SetParameters(fd.Params)
	err := g.genBlock(fd.Body, fd.ReturnType)
	g.vars.LeaveScope()
	return err
}

// emitPrologue emits the shared frame-push sequence: bump base_index,
// mirror it into memory:temp, and push memory:temp.arguments as the new
// frame.
func (g *Generator) emitPrologue() {
	g.script.Line("scoreboard players add base_index registers 1")
	g.script.Line("execute store result storage memory:temp base_index int 1 run scoreboard players get base_index registers")
	g.script.Line("$data modify storage memory:stack frame append from storage memory:temp arguments")
}

// emitEpilogue calls the fixed pop_frame helper.
func (g *Generator) emitEpilogue() {
	g.script.Line(helperCall("pop_frame"))
}

// nextLabel allocates the next `<function-ident>-label_n` name.
func (g *Generator) nextLabel() string {
	name := fmt.Sprintf("%s-label_%d", g.funcIdent, g.labelCounter)
	g.labelCounter++
	return name
}

// workWithNext appends the current active script to the namespace (it is
// already live there via NewScript) and installs name as the new active
// script — the one boundary at which the statement lowerer's
// script-splitting state machine operates.
func (g *Generator) workWithNext(name string) {
	g.script = g.ns.NewScript(name)
}

// callFunction emits a plain jump to another script in ns, always
// carrying the memory:temp macro argument so any $(base_index) (or
// other macro) reference inside the callee keeps working — every script
// that can touch frame-relative storage must be invoked this way.
func (g *Generator) callFunction(ns, name string) {
	g.script.Linef("function %s:%s with storage memory:temp", ns, name)
}

// returnRunFunction emits the "return run function ..." idiom: stop the
// current script immediately after dispatching to ns:name, so nothing
// after it in the current physical script executes.
func (g *Generator) returnRunFunction(ns, name string) {
	g.script.Linef("return run function %s:%s with storage memory:temp", ns, name)
}

// globalLocation returns the canonical Memory location for a global
// Variable.
func globalLocation(v *Variable) Location {
	return Memory("memory:global", v.DecoratedName)
}

// localLocation returns the canonical Memory location for a local
// Variable.
func localLocation(v *Variable) Location {
	return Memory("memory:stack", fmt.Sprintf("frame[$(base_index)].%s", v.DecoratedName))
}

// variableLocation dispatches to globalLocation/localLocation.
func variableLocation(v *Variable) Location {
	if v.IsLocal {
		return localLocation(v)
	}
	return globalLocation(v)
}
