package compiler_test

import (
	"testing"

	"github.com/rubiojr/mcscript/compiler"
	"github.com/rubiojr/mcscript/compiler/mchost"
	"github.com/rubiojr/mcscript/parser"
	"github.com/rubiojr/mcscript/runtime"
	"github.com/stretchr/testify/require"
)

// buildHost parses src under namespace ns, compiles it, and runs the
// runtime bootstrap plus the namespace's own global initializers, leaving
// the host ready to invoke any of ns's functions.
func buildHost(t *testing.T, ns, src string) *mchost.Host {
	t.Helper()
	unit, err := parser.Parse(ns+".mcs", src)
	require.NoError(t, err)

	p, err := compiler.Generate([]compiler.Unit{{Namespace: ns, Program: unit}}, compiler.DefaultOptions())
	require.NoError(t, err)

	h := mchost.New(p)
	h.Run(runtime.Namespace, "init")
	h.Run(ns, "init")
	return h
}

func TestEndToEndReturnLiteral(t *testing.T) {
	src := `
func test1() -> int {
	return 1;
}
`
	h := buildHost(t, "t1", src)
	h.Run("t1", "test1")
	require.EqualValues(t, 1, h.Score("return_value", "registers"))
}

func TestEndToEndTriangularNumbers(t *testing.T) {
	src := `
func test2() -> [int] {
	let a = new[10](0);
	let i = 0;
	let sum = 0;
	while i < 10 {
		sum = sum + i + 1;
		a[i] = sum;
		i = i + 1;
	}
	return a;
}
`
	h := buildHost(t, "t2", src)
	h.Run("t2", "test2")
	got := mchost.ToGo(h.Get("memory:temp", "return_value"))
	require.Equal(t, []any{
		int32(1), int32(3), int32(6), int32(10), int32(15),
		int32(21), int32(28), int32(36), int32(45), int32(55),
	}, got)
}

func TestEndToEndIterativeFibonacci(t *testing.T) {
	src := `
func test3() -> [int] {
	let a = new[10](0);
	a[0] = 1;
	a[1] = 1;
	let i = 2;
	while i < 10 {
		a[i] = a[i - 1] + a[i - 2];
		i = i + 1;
	}
	return a;
}
`
	h := buildHost(t, "t3", src)
	h.Run("t3", "test3")
	got := mchost.ToGo(h.Get("memory:temp", "return_value"))
	require.Equal(t, []any{
		int32(1), int32(1), int32(2), int32(3), int32(5),
		int32(8), int32(13), int32(21), int32(34), int32(55),
	}, got)
}

// TestEndToEndRecursiveFibonacci exercises deep recursive calls and the
// caller-saved register spill/restore protocol; n is kept well below 40 to
// keep the interpreter's command-by-command walk fast — the stack
// mechanics it exercises are identical at any depth.
func TestEndToEndRecursiveFibonacci(t *testing.T) {
	src := `
func fib(n: int) -> int {
	if n < 2 {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}

func test4() -> int {
	return fib(22);
}
`
	h := buildHost(t, "t4", src)
	h.Run("t4", "test4")
	require.EqualValues(t, 17711, h.Score("return_value", "registers"))
}

func TestEndToEndNestedArraySubscriptWrite(t *testing.T) {
	src := `
func arr_subscript_2() -> [[[int]]] {
	let a = [[[3, 3], [0]], [[3], [0]]];
	a[1][0][0] = 4;
	return a;
}
`
	h := buildHost(t, "t5", src)
	h.Run("t5", "arr_subscript_2")
	got := mchost.ToGo(h.Get("memory:temp", "return_value"))
	require.Equal(t, []any{
		[]any{[]any{int32(3), int32(3)}, []any{int32(0)}},
		[]any{[]any{int32(4)}, []any{int32(0)}},
	}, got)
}

func TestEndToEndWhileContinueAccumulation(t *testing.T) {
	src := `
func continue_1() -> int {
	let i = 0;
	let sum = 0;
	while i < 50 {
		i = i + 1;
		if i > 24 {
			continue;
		}
		sum = sum + i * i;
	}
	return sum;
}
`
	h := buildHost(t, "t6", src)
	h.Run("t6", "continue_1")
	require.EqualValues(t, 4900, h.Score("return_value", "registers"))
}

func TestEndToEndMutualGlobalState(t *testing.T) {
	src := `
global x: int = 959905;
global y: int = 959905;

func sync() {
	x = x + y;
}

func glob_var_5() -> int {
	sync();
	return x;
}
`
	h := buildHost(t, "t7", src)
	h.Run("t7", "glob_var_5")
	require.EqualValues(t, 1919810, h.Score("return_value", "registers"))
}
