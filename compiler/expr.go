package compiler

import (
	"fmt"

	"github.com/rubiojr/mcscript/ast"
	"github.com/rubiojr/mcscript/runtime"
)

// ExpVal is the generator's internal return value for every expression:
// its type and where its value now lives.
type ExpVal struct {
	Type     ast.Type
	Location Location
}

// eval lowers exp, emitting commands into the currently active script,
// and returns where the resulting value now lives. It never returns a
// literal-free MemoryRef that has not been initialized.
func (g *Generator) eval(exp ast.Exp) (ExpVal, error) {
	switch e := exp.(type) {
	case *ast.NumberExp:
		return g.evalNumber(e)
	case *ast.VariableExp:
		return g.evalVariable(e)
	case *ast.UnaryExp:
		return g.evalUnary(e)
	case *ast.BinaryExp:
		return g.evalBinary(e)
	case *ast.FuncCallExp:
		return g.evalFuncCall(e)
	case *ast.ArrayElementExp:
		return g.evalArrayElement(e)
	case *ast.NewArrayExp:
		return g.evalNewArray(e)
	case *ast.SquareBracketsArrayExp:
		return g.evalSquareBrackets(e)
	default:
		panic(fmt.Sprintf("compiler: unhandled expression type %T", exp))
	}
}

func (g *Generator) evalNumber(e *ast.NumberExp) (ExpVal, error) {
	reg := g.regs.New()
	movImmediate(g.script, reg, e.Value, g.objs)
	return ExpVal{Type: ast.IntType(), Location: reg}, nil
}

func (g *Generator) evalVariable(e *ast.VariableExp) (ExpVal, error) {
	qualifier := ""
	if e.Qualifier != nil {
		qualifier = e.Qualifier.Text
	}
	v, err := g.vars.Query(g.nsName, qualifier, e.Name)
	if err != nil {
		return ExpVal{}, err
	}
	return ExpVal{Type: v.Type, Location: variableLocation(v)}, nil
}

func (g *Generator) evalUnary(e *ast.UnaryExp) (ExpVal, error) {
	operand, err := g.eval(e.Operand)
	if err != nil {
		return ExpVal{}, err
	}
	if !operand.Type.IsInt() {
		return ExpVal{}, errTypeMismatch(g.nsName, e.ExpSpan(), ast.IntType(), operand.Type)
	}
	reg := g.regs.New()
	mov(g.script, reg, operand.Location)
	switch e.Op {
	case ast.UnaryPositive:
		// no-op on the register value itself.
	case ast.UnaryNegative:
		zero := g.regs.New()
		movImmediate(g.script, zero, 0, g.objs)
		g.script.Linef("scoreboard players operation %s registers -= %s registers", zero.Reg, reg.Reg)
		reg = zero
	}
	return ExpVal{Type: ast.IntType(), Location: reg}, nil
}

var arithOpToken = map[ast.BinaryOp]string{
	ast.OpAdd: "+=",
	ast.OpSub: "-=",
	ast.OpMul: "*=",
	ast.OpDiv: "/=",
	ast.OpMod: "%=",
}

func (g *Generator) evalBinary(e *ast.BinaryExp) (ExpVal, error) {
	l, err := g.eval(e.Left)
	if err != nil {
		return ExpVal{}, err
	}
	r, err := g.eval(e.Right)
	if err != nil {
		return ExpVal{}, err
	}
	if !l.Type.IsInt() {
		return ExpVal{}, errTypeMismatch(g.nsName, e.Left.ExpSpan(), ast.IntType(), l.Type)
	}
	if !r.Type.IsInt() {
		return ExpVal{}, errTypeMismatch(g.nsName, e.Right.ExpSpan(), ast.IntType(), r.Type)
	}

	if e.Op.IsRelational() {
		res := g.relational(e.Op, l.Location, r.Location)
		return ExpVal{Type: ast.IntType(), Location: res}, nil
	}

	res := g.regs.New()
	mov(g.script, res, l.Location)
	rhsReg := toReg(g.script, r.Location, g.regs)
	g.script.Linef("scoreboard players operation %s registers %s %s registers", res.Reg, arithOpToken[e.Op], rhsReg.Reg)
	return ExpVal{Type: ast.IntType(), Location: res}, nil
}

// relational lowers a relational comparison to a 0/1 register result.
// left/right are coerced to registers, their difference is computed into
// a scratch register, and the result register is initialized to the
// "assume false" value (1 for !=, 0 otherwise) then flipped if the
// difference falls in the range proving the comparison true.
func (g *Generator) relational(op ast.BinaryOp, left, right Location) Location {
	lReg := toReg(g.script, left, g.regs)
	rReg := toReg(g.script, right, g.regs)
	diff := g.regs.New()
	mov(g.script, diff, lReg)
	g.script.Linef("scoreboard players operation %s registers -= %s registers", diff.Reg, rReg.Reg)

	res := g.regs.New()
	initVal, flipVal, rng := 0, 1, ""
	switch op {
	case ast.OpLt:
		rng = "..-1"
	case ast.OpLe:
		rng = "..0"
	case ast.OpGt:
		rng = "1.."
	case ast.OpGe:
		rng = "0.."
	case ast.OpEq:
		rng = "0"
	case ast.OpNe:
		initVal, flipVal, rng = 1, 0, "0"
	}
	movImmediate(g.script, res, int32(initVal), g.objs)
	g.script.Linef("execute if score %s registers matches %s run scoreboard players set %s registers %d", diff.Reg, rng, res.Reg, flipVal)
	return res
}

func (g *Generator) evalFuncCall(e *ast.FuncCallExp) (ExpVal, error) {
	targetNs := g.nsName
	if e.Qualifier != nil {
		targetNs = e.Qualifier.Text
	}
	def, err := g.funcs.Query(targetNs, e.Name)
	if err != nil {
		return ExpVal{}, err
	}
	if len(e.Args) != len(def.Params) {
		return ExpVal{}, errArgCountMismatch(g.nsName, e.ExpSpan(), e.Name.Text, len(def.Params), len(e.Args))
	}

	// Caller-saves: spill every register currently live at this call site.
	saved := g.regs.Mark()
	for k := 0; k < saved; k++ {
		spillSlot := Memory("memory:stack", fmt.Sprintf("frame[$(base_index)].%%r%d", k))
		mov(g.script, spillSlot, Register(fmt.Sprintf("r%d", k)))
	}
	g.regs.Reset()

	for i, argExp := range e.Args {
		val, err := g.eval(argExp)
		if err != nil {
			return ExpVal{}, err
		}
		if !val.Type.Equal(def.Params[i].Type) {
			return ExpVal{}, errTypeMismatch(g.nsName, argExp.ExpSpan(), def.Params[i].Type, val.Type)
		}
		mov(g.script, Memory("memory:temp", fmt.Sprintf("arguments.%%%d", i)), val.Location)
	}

	g.callFunction(targetNs, def.Name.Text)

	for k := 0; k < saved; k++ {
		spillSlot := Memory("memory:stack", fmt.Sprintf("frame[$(base_index)].%%r%d", k))
		mov(g.script, Register(fmt.Sprintf("r%d", k)), spillSlot)
	}
	g.regs.next = saved

	if def.ReturnType == nil {
		return ExpVal{Type: ast.IntType(), Location: Memory("memory:temp", "return_value")}, nil
	}
	if def.ReturnType.IsArray() {
		obj := g.objs.New()
		mov(g.script, obj, Memory("memory:temp", "return_value"))
		return ExpVal{Type: *def.ReturnType, Location: obj}, nil
	}
	reg := g.regs.New()
	mov(g.script, reg, Register("return_value"))
	return ExpVal{Type: *def.ReturnType, Location: reg}, nil
}

func (g *Generator) evalArrayElement(e *ast.ArrayElementExp) (ExpVal, error) {
	subVal, err := g.eval(e.Subscript)
	if err != nil {
		return ExpVal{}, err
	}
	if !subVal.Type.IsInt() {
		return ExpVal{}, errTypeMismatch(g.nsName, e.Subscript.ExpSpan(), ast.IntType(), subVal.Type)
	}
	arrVal, err := g.eval(e.Array)
	if err != nil {
		return ExpVal{}, err
	}
	if !arrVal.Type.IsArray() {
		return ExpVal{}, errIndexIntoNonArray(g.nsName, e.Array.ExpSpan(), arrVal.Type)
	}

	switch arrVal.Location.Kind {
	case LocMemory:
		setTempLiteral(g.script, "array_path", storagePath(arrVal.Location.Store, arrVal.Location.Path))
	case LocMemoryRef:
		g.script.Linef("data modify storage memory:temp array_path set from storage %s", storagePath(arrVal.Location.Store, arrVal.Location.Path))
	default:
		panic("compiler: array expression evaluated to a Register")
	}
	mov(g.script, Memory("memory:temp", "subscript"), subVal.Location)
	g.callFunction(runtime.Namespace, "load_element_path")

	obj := g.objs.New()
	mov(g.script, obj, Memory("memory:temp", "element_path"))
	return ExpVal{Type: arrVal.Type.Elem(), Location: MemoryRef(obj.Store, obj.Path)}, nil
}

func (g *Generator) evalNewArray(e *ast.NewArrayExp) (ExpVal, error) {
	lenVal, err := g.eval(e.Length)
	if err != nil {
		return ExpVal{}, err
	}
	if !lenVal.Type.IsInt() {
		return ExpVal{}, errTypeMismatch(g.nsName, e.Length.ExpSpan(), ast.IntType(), lenVal.Type)
	}
	elemVal, err := g.eval(e.Element)
	if err != nil {
		return ExpVal{}, err
	}

	arr := g.objs.New()
	g.script.Linef("data modify storage %s set value []", storagePath(arr.Store, arr.Path))

	lenReg := toReg(g.script, lenVal.Location, g.regs)
	current := g.regs.New()
	movImmediate(g.script, current, 0, g.objs)

	judge := g.nextLabel()
	body := g.nextLabel()
	following := g.nextLabel()

	g.callFunction(g.nsName, judge)

	g.workWithNext(judge)
	pred := g.relational(ast.OpLt, current, lenReg)
	g.emitConditionalJump(pred, body, following)

	g.workWithNext(body)
	mov(g.script, Memory("memory:temp", "element"), elemVal.Location)
	setTempLiteral(g.script, "array_path", storagePath(arr.Store, arr.Path))
	g.callFunction(runtime.Namespace, "array_push")
	g.script.Linef("scoreboard players add %s registers 1", current.Reg)
	g.callFunction(g.nsName, judge)

	g.workWithNext(following)
	return ExpVal{Type: ast.ArrayType(elemVal.Type), Location: arr}, nil
}

func (g *Generator) evalSquareBrackets(e *ast.SquareBracketsArrayExp) (ExpVal, error) {
	arr := g.objs.New()
	g.script.Linef("data modify storage %s set value []", storagePath(arr.Store, arr.Path))

	if len(e.Elements) == 0 {
		if e.DeclaredElem == nil {
			return ExpVal{}, errExpectedValue(g.nsName, e.ExpSpan(), ast.IntType())
		}
		return ExpVal{Type: ast.ArrayType(*e.DeclaredElem), Location: arr}, nil
	}

	var elemType ast.Type
	for i, el := range e.Elements {
		val, err := g.eval(el)
		if err != nil {
			return ExpVal{}, err
		}
		if i == 0 {
			elemType = val.Type
			if e.DeclaredElem != nil && !elemType.Equal(*e.DeclaredElem) {
				return ExpVal{}, errTypeMismatch(g.nsName, el.ExpSpan(), *e.DeclaredElem, elemType)
			}
		} else if !val.Type.Equal(elemType) {
			return ExpVal{}, errTypeMismatch(g.nsName, el.ExpSpan(), elemType, val.Type)
		}
		mov(g.script, Memory("memory:temp", "element"), val.Location)
		setTempLiteral(g.script, "array_path", storagePath(arr.Store, arr.Path))
		g.callFunction(runtime.Namespace, "array_push")
	}
	return ExpVal{Type: ast.ArrayType(elemType), Location: arr}, nil
}
