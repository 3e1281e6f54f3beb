package parser

import (
	"testing"

	"github.com/rubiojr/mcscript/ast"
	"github.com/stretchr/testify/require"
)

func TestParsesGlobalAndFunction(t *testing.T) {
	src := `
global counter: int = 0;

func add(a: int, b: int) -> int {
	return a + b;
}
`
	unit, err := Parse("t.mcs", src)
	require.NoError(t, err)
	require.Len(t, unit.Globals, 2)

	vd, ok := unit.Globals[0].(*ast.VariableDef)
	require.True(t, ok)
	require.Equal(t, "counter", vd.Name.Text)
	require.True(t, vd.Type.IsInt())

	fd, ok := unit.Globals[1].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "add", fd.Name.Text)
	require.Len(t, fd.Params, 2)
	require.NotNil(t, fd.ReturnType)
	require.Len(t, fd.Body, 1)
}

func TestParsesIfElseIfElse(t *testing.T) {
	src := `
func classify(n: int) -> int {
	if n < 0 {
		return 0;
	} else if n == 0 {
		return 1;
	} else {
		return 2;
	}
}
`
	unit, err := Parse("t.mcs", src)
	require.NoError(t, err)
	fd := unit.Globals[0].(*ast.FuncDef)
	ifStmt := fd.Body[0].(*ast.IfStmt)
	require.Len(t, ifStmt.ElseIfs, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParsesWhileBreakContinue(t *testing.T) {
	src := `
func loop() {
	let i = 0;
	while i < 10 {
		if i == 5 {
			break;
		}
		if i == 2 {
			continue;
		}
		i = i + 1;
	}
}
`
	unit, err := Parse("t.mcs", src)
	require.NoError(t, err)
	fd := unit.Globals[0].(*ast.FuncDef)
	require.NotNil(t, fd)
	ws, ok := fd.Body[1].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, ws.Body, 3)
}

func TestParsesArraysAndIndexing(t *testing.T) {
	src := `
func build() -> [int] {
	let a = [1, 2, 3];
	let b = new[5](0);
	let empty = []int;
	let x = a[0] + b[1];
	a[0] = x;
	return a;
}
`
	unit, err := Parse("t.mcs", src)
	require.NoError(t, err)
	fd := unit.Globals[0].(*ast.FuncDef)
	require.True(t, fd.ReturnType.IsArray())

	lit := fd.Body[0].(*ast.LetStmt).Init.(*ast.SquareBracketsArrayExp)
	require.Len(t, lit.Elements, 3)

	newArr := fd.Body[1].(*ast.LetStmt).Init.(*ast.NewArrayExp)
	require.NotNil(t, newArr.Length)

	emptyLit := fd.Body[2].(*ast.LetStmt).Init.(*ast.SquareBracketsArrayExp)
	require.NotNil(t, emptyLit.DeclaredElem)
	require.True(t, emptyLit.DeclaredElem.IsInt())

	assign := fd.Body[4].(*ast.AssignStmt)
	_, ok := assign.Lhs.(*ast.ArrayElementExp)
	require.True(t, ok)
}

func TestParsesQualifiedCallAndVariable(t *testing.T) {
	src := `
func useOther() -> int {
	return other.total() + other.base;
}
`
	unit, err := Parse("t.mcs", src)
	require.NoError(t, err)
	fd := unit.Globals[0].(*ast.FuncDef)
	ret := fd.Body[0].(*ast.ReturnStmt).Value.(*ast.BinaryExp)

	call := ret.Left.(*ast.FuncCallExp)
	require.NotNil(t, call.Qualifier)
	require.Equal(t, "other", call.Qualifier.Text)
	require.Equal(t, "total", call.Name.Text)

	v := ret.Right.(*ast.VariableExp)
	require.NotNil(t, v.Qualifier)
	require.Equal(t, "other", v.Qualifier.Text)
	require.Equal(t, "base", v.Name.Text)
}

func TestParsesInlineCommand(t *testing.T) {
	src := `
func announce(score: int) {
	cmd "scoreboard players set @a display {}", score;
}
`
	unit, err := Parse("t.mcs", src)
	require.NoError(t, err)
	fd := unit.Globals[0].(*ast.FuncDef)
	ic, ok := fd.Body[0].(*ast.InlineCommandStmt)
	require.True(t, ok)
	require.Equal(t, "scoreboard players set @a display {}", ic.FmtStr)
	require.Len(t, ic.Args, 1)
}

func TestSyntaxErrorsAreAggregated(t *testing.T) {
	src := `
global x: int = ;
func broken( -> int {
`
	_, err := Parse("t.mcs", src)
	require.Error(t, err)
}
