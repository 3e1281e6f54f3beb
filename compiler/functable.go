package compiler

import (
	"github.com/rubiojr/mcscript/ast"
)

// FuncTable maps (namespace, name) to the full function definition. It is
// populated once during the global scan pass and only read during
// emission; definitions are returned by reference rather than cloned,
// since they are never mutated after the scan pass.
type FuncTable struct {
	byKey map[string]*ast.FuncDef
}

// NewFuncTable returns an empty function table.
func NewFuncTable() *FuncTable {
	return &FuncTable{byKey: make(map[string]*ast.FuncDef)}
}

func funcKey(ns, name string) string { return ns + "." + name }

// New registers a function definition under (namespace, name). Duplicate
// registration is a MultipleDefinition error.
func (t *FuncTable) New(ns string, def *ast.FuncDef) error {
	key := funcKey(ns, def.Name.Text)
	if _, exists := t.byKey[key]; exists {
		return errMultipleDefinition(ns, def.Name)
	}
	t.byKey[key] = def
	return nil
}

// Query looks up (namespace, name). The namespace is either the current
// one (unqualified call) or an explicitly qualified one.
func (t *FuncTable) Query(ns string, id ast.Identifier) (*ast.FuncDef, error) {
	if def, ok := t.byKey[funcKey(ns, id.Text)]; ok {
		return def, nil
	}
	return nil, errUndefinedIdentifier(ns, id)
}
