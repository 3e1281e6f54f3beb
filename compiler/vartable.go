package compiler

import (
	"fmt"

	"github.com/rubiojr/mcscript/ast"
)

// Variable is a resolved binding: whether it is a local (lives in the
// current frame) or a global (lives in memory:global), its decorated
// storage name, and its type. Decoration is total and collision-free:
// locals are `n@d` (scope depth d), parameters are `%i`, globals are
// `n@ns`.
type Variable struct {
	IsLocal       bool
	DecoratedName string
	Type          ast.Type
}

// VarTable is a stack of per-scope local maps plus one flat map of
// globals keyed by (namespace, name). Locals shadow outer scopes;
// globals never shadow each other (duplicate insertion is an error).
type VarTable struct {
	locals  []map[string]*Variable
	globals map[string]map[string]*Variable // namespace -> name -> Variable
}

// NewVarTable returns an empty table with no open scopes.
func NewVarTable() *VarTable {
	return &VarTable{globals: make(map[string]map[string]*Variable)}
}

// EnterScope pushes a fresh, empty lexical scope.
func (t *VarTable) EnterScope() {
	t.locals = append(t.locals, make(map[string]*Variable))
}

// LeaveScope pops the innermost lexical scope. Callers must pair every
// EnterScope with exactly one LeaveScope, on every exit path (including
// early returns via break/continue).
func (t *VarTable) LeaveScope() {
	if len(t.locals) == 0 {
		panic("compiler: LeaveScope with no open scope")
	}
	t.locals = t.locals[:len(t.locals)-1]
}

// Depth returns the current scope nesting depth (0 = no local scope open).
func (t *VarTable) Depth() int { return len(t.locals) }

// NewLocal declares a new local in the innermost scope. Shadowing across
// scopes is allowed; redeclaring within the same scope is a
// MultipleDefinition error.
func (t *VarTable) NewLocal(ns string, id ast.Identifier, typ ast.Type) (*Variable, error) {
	if len(t.locals) == 0 {
		panic("compiler: NewLocal with no open scope")
	}
	scope := t.locals[len(t.locals)-1]
	if _, exists := scope[id.Text]; exists {
		return nil, errMultipleDefinition(ns, id)
	}
	v := &Variable{IsLocal: true, DecoratedName: fmt.Sprintf("%s@%d", id.Text, len(t.locals)-1), Type: typ}
	scope[id.Text] = v
	return v, nil
}

// SetParameters installs the decorated parameter bindings (`%i`) into the
// current (innermost, function-entry) scope.
func (t *VarTable) SetParameters(params []ast.Param) {
	if len(t.locals) == 0 {
		panic("compiler: SetParameters with no open scope")
	}
	scope := t.locals[len(t.locals)-1]
	for i, p := range params {
		scope[p.Name.Text] = &Variable{IsLocal: true, DecoratedName: fmt.Sprintf("%%%d", i), Type: p.Type}
	}
}

// NewGlobal declares a new global variable in namespace ns. Duplicate
// declaration within the same namespace is a MultipleDefinition error.
func (t *VarTable) NewGlobal(ns string, id ast.Identifier, typ ast.Type) (*Variable, error) {
	nsMap, ok := t.globals[ns]
	if !ok {
		nsMap = make(map[string]*Variable)
		t.globals[ns] = nsMap
	}
	if _, exists := nsMap[id.Text]; exists {
		return nil, errMultipleDefinition(ns, id)
	}
	v := &Variable{IsLocal: false, DecoratedName: fmt.Sprintf("%s@%s", id.Text, ns), Type: typ}
	nsMap[id.Text] = v
	return v, nil
}

// Query resolves an identifier. If qualifier is non-empty it bypasses
// locals entirely and looks the name up straight in that namespace's
// globals. Otherwise: innermost-first over open local scopes, then
// globals of currentNamespace.
func (t *VarTable) Query(currentNamespace, qualifier string, id ast.Identifier) (*Variable, error) {
	if qualifier != "" {
		if nsMap, ok := t.globals[qualifier]; ok {
			if v, ok := nsMap[id.Text]; ok {
				return v, nil
			}
		}
		return nil, errUndefinedIdentifier(qualifier, id)
	}
	for i := len(t.locals) - 1; i >= 0; i-- {
		if v, ok := t.locals[i][id.Text]; ok {
			return v, nil
		}
	}
	if nsMap, ok := t.globals[currentNamespace]; ok {
		if v, ok := nsMap[id.Text]; ok {
			return v, nil
		}
	}
	return nil, errUndefinedIdentifier(currentNamespace, id)
}
