package compiler

import (
	"fmt"

	"github.com/rubiojr/mcscript/ast"
)

// genBlock lowers a statement list in a fresh lexical scope, threading the
// enclosing function's return type through for Return/If/While bodies.
func (g *Generator) genBlock(stmts []ast.Statement, retType *ast.Type) error {
	g.vars.EnterScope()
	for _, s := range stmts {
		if err := g.genStmt(s, retType); err != nil {
			g.vars.LeaveScope()
			return err
		}
	}
	g.vars.LeaveScope()
	return nil
}

func (g *Generator) genStmt(s ast.Statement, retType *ast.Type) error {
	switch st := s.(type) {
	case *ast.LetStmt:
		return g.genLet(st)
	case *ast.ReturnStmt:
		return g.genReturn(st, retType)
	case *ast.AssignStmt:
		return g.genAssign(st)
	case *ast.BlockStmt:
		return g.genBlock(st.Body, retType)
	case *ast.IfStmt:
		return g.genIf(st, retType)
	case *ast.WhileStmt:
		return g.genWhile(st, retType)
	case *ast.BreakStmt:
		return g.genBreak(st)
	case *ast.ContinueStmt:
		return g.genContinue(st)
	case *ast.ExpStmt:
		g.regs.Reset()
		_, err := g.eval(st.Value)
		return err
	case *ast.InlineCommandStmt:
		return g.genInlineCommand(st)
	default:
		panic(fmt.Sprintf("compiler: unhandled statement type %T", s))
	}
}

func (g *Generator) genLet(s *ast.LetStmt) error {
	g.regs.Reset()
	val, err := g.eval(s.Init)
	if err != nil {
		return err
	}
	v, err := g.vars.NewLocal(g.nsName, s.Name, val.Type)
	if err != nil {
		return err
	}
	mov(g.script, variableLocation(v), val.Location)
	return nil
}

func (g *Generator) genReturn(s *ast.ReturnStmt, retType *ast.Type) error {
	g.regs.Reset()
	if s.Value == nil {
		if retType != nil {
			return errExpectedValue(g.nsName, s.StmtSpan(), *retType)
		}
		g.script.Line("return 0")
		return nil
	}
	if retType == nil {
		val, err := g.eval(s.Value)
		if err != nil {
			return err
		}
		return errExpectedVoid(g.nsName, s.Value.ExpSpan(), val.Type)
	}
	val, err := g.eval(s.Value)
	if err != nil {
		return err
	}
	if !val.Type.Equal(*retType) {
		return errTypeMismatch(g.nsName, s.Value.ExpSpan(), *retType, val.Type)
	}
	if retType.IsInt() {
		mov(g.script, Register("return_value"), val.Location)
	} else {
		mov(g.script, Memory("memory:temp", "return_value"), val.Location)
	}
	g.script.Line("return 0")
	return nil
}

func (g *Generator) genAssign(s *ast.AssignStmt) error {
	g.regs.Reset()
	rhs, err := g.eval(s.Rhs)
	if err != nil {
		return err
	}
	switch s.Lhs.(type) {
	case *ast.VariableExp, *ast.ArrayElementExp:
	default:
		return errExpectedValue(g.nsName, s.Lhs.ExpSpan(), rhs.Type)
	}
	lhs, err := g.eval(s.Lhs)
	if err != nil {
		return err
	}
	if !lhs.Type.Equal(rhs.Type) {
		return errTypeMismatch(g.nsName, s.Rhs.ExpSpan(), lhs.Type, rhs.Type)
	}
	mov(g.script, lhs.Location, rhs.Location)
	return nil
}

// emitConditionalJump is the if/while branch idiom: jump to falseTarget
// when pred is 0, otherwise fall through to a plain jump into trueTarget.
func (g *Generator) emitConditionalJump(pred Location, trueTarget, falseTarget string) {
	g.script.Linef("execute if score %s registers matches 0 run return run function %s:%s with storage memory:temp", pred.Reg, g.nsName, falseTarget)
	g.callFunction(g.nsName, trueTarget)
}

func (g *Generator) genIf(s *ast.IfStmt, retType *ast.Type) error {
	g.regs.Reset()
	predVal, err := g.eval(s.Cond)
	if err != nil {
		return err
	}
	if !predVal.Type.IsInt() {
		return errTypeMismatch(g.nsName, s.Cond.ExpSpan(), ast.IntType(), predVal.Type)
	}
	predReg := toReg(g.script, predVal.Location, g.regs)

	ifBranch := g.nextLabel()
	following := g.nextLabel()
	hasElse := len(s.ElseIfs) > 0 || s.Else != nil
	elseBranch := following
	if hasElse {
		elseBranch = g.nextLabel()
	}
	g.emitConditionalJump(predReg, ifBranch, elseBranch)

	g.workWithNext(ifBranch)
	if err := g.genBlock(s.Then, retType); err != nil {
		return err
	}
	g.callFunction(g.nsName, following)

	if hasElse {
		g.workWithNext(elseBranch)
		if len(s.ElseIfs) > 0 {
			nested := &ast.IfStmt{
				BaseStmt: s.BaseStmt,
				Cond:     s.ElseIfs[0].Cond,
				Then:     s.ElseIfs[0].Body,
				ElseIfs:  s.ElseIfs[1:],
				Else:     s.Else,
			}
			if err := g.genIf(nested, retType); err != nil {
				return err
			}
		} else {
			if err := g.genBlock(s.Else, retType); err != nil {
				return err
			}
		}
		g.callFunction(g.nsName, following)
	}

	g.workWithNext(following)
	return nil
}

func (g *Generator) genWhile(s *ast.WhileStmt, retType *ast.Type) error {
	judge := g.nextLabel()
	body := g.nextLabel()
	following := g.nextLabel()

	g.breakStack = append(g.breakStack, following)
	g.continueStack = append(g.continueStack, judge)

	g.callFunction(g.nsName, judge)

	g.workWithNext(judge)
	g.regs.Reset()
	predVal, err := g.eval(s.Cond)
	if err != nil {
		return err
	}
	if !predVal.Type.IsInt() {
		return errTypeMismatch(g.nsName, s.Cond.ExpSpan(), ast.IntType(), predVal.Type)
	}
	predReg := toReg(g.script, predVal.Location, g.regs)
	g.emitConditionalJump(predReg, body, following)

	g.workWithNext(body)
	if err := g.genBlock(s.Body, retType); err != nil {
		return err
	}
	g.callFunction(g.nsName, judge)

	g.workWithNext(following)
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
	g.continueStack = g.continueStack[:len(g.continueStack)-1]
	return nil
}

func (g *Generator) genBreak(s *ast.BreakStmt) error {
	if len(g.breakStack) == 0 {
		return errNoLoopToBreak(g.nsName, s.StmtSpan())
	}
	target := g.breakStack[len(g.breakStack)-1]
	g.returnRunFunction(g.nsName, target)
	return nil
}

func (g *Generator) genContinue(s *ast.ContinueStmt) error {
	if len(g.continueStack) == 0 {
		return errNoLoopToContinue(g.nsName, s.StmtSpan())
	}
	target := g.continueStack[len(g.continueStack)-1]
	g.returnRunFunction(g.nsName, target)
	return nil
}

// genInlineCommand lowers an inline host command: arguments are evaluated
// into memory:temp.custom_command_arguments, and a small per-namespace
// helper script is created (once per call site) holding the literal
// command text with "{}" replaced by positional macro references.
func (g *Generator) genInlineCommand(s *ast.InlineCommandStmt) error {
	g.regs.Reset()
	for i, a := range s.Args {
		val, err := g.eval(a)
		if err != nil {
			return err
		}
		mov(g.script, Memory("memory:temp", fmt.Sprintf("custom_command_arguments.%d", i)), val.Location)
	}

	n := g.customCmdCounter[g.nsName]
	g.customCmdCounter[g.nsName] = n + 1
	name := fmt.Sprintf("custom_cmd_%d", n)

	line := substitutePlaceholders(s.FmtStr, len(s.Args))
	helper := g.ns.NewScript(name)
	helper.Line(line)

	g.script.Linef("function %s:%s with storage memory:temp custom_command_arguments", g.nsName, name)
	return nil
}

// substitutePlaceholders replaces each "{}" in format, left to right, with
// a macro reference "$(0)", "$(1)", ....
func substitutePlaceholders(format string, n int) string {
	out := ""
	arg := 0
	for i := 0; i < len(format); i++ {
		if arg < n && i+1 < len(format) && format[i] == '{' && format[i+1] == '}' {
			out += fmt.Sprintf("$(%d)", arg)
			arg++
			i++
			continue
		}
		out += string(format[i])
	}
	return out
}
