// Package parser turns lexer token streams into ast.CompileUnit trees.
// Syntax errors are accumulated into a modernc.org/scanner.ErrList so a
// single parse reports every syntax error it can recover from rather than
// stopping at the first one, matching the aggregation style the teacher's
// own generated parser uses.
package parser

import (
	"fmt"

	"github.com/rubiojr/mcscript/ast"
	"github.com/rubiojr/mcscript/lexer"
	"modernc.org/scanner"
)

// Parse lexes and parses one source file into a CompileUnit. name is used
// only for error messages.
func Parse(name, src string) (*ast.CompileUnit, error) {
	p := &parser{name: name, lex: lexer.New(src)}
	p.advance()
	unit := p.parseCompileUnit()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return unit, nil
}

type parser struct {
	name string
	lex  *lexer.Lexer
	tok  lexer.Token
	errs scanner.ErrList
}

func (p *parser) advance() {
	tok, err := p.lex.Next()
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s:%d: %s", p.name, err.(*lexer.Error).Pos, err.(*lexer.Error).Msg))
		p.tok = lexer.Token{Kind: lexer.EOF}
		return
	}
	p.tok = tok
}

func (p *parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%s:%d: %s", p.name, p.tok.Begin, fmt.Sprintf(format, args...)))
}

func (p *parser) expect(k lexer.Kind, what string) lexer.Token {
	if p.tok.Kind != k {
		p.errorf("expected %s, found %q", what, p.tok.Text)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *parser) span(begin int) ast.Span {
	return ast.Span{Begin: begin, End: p.tok.Begin}
}

func (p *parser) parseCompileUnit() *ast.CompileUnit {
	unit := &ast.CompileUnit{}
	for p.tok.Kind != lexer.EOF {
		gd := p.parseGlobalDef()
		if gd != nil {
			unit.Globals = append(unit.Globals, gd)
		} else if p.tok.Kind != lexer.EOF {
			// avoid an infinite loop on an unrecoverable token
			p.advance()
		}
	}
	return unit
}

func (p *parser) parseGlobalDef() ast.GlobalDef {
	begin := p.tok.Begin
	switch p.tok.Kind {
	case lexer.KwGlobal:
		p.advance()
		name := p.parseIdentifier()
		p.expect(lexer.Colon, "':'")
		typ := p.parseType()
		p.expect(lexer.Assign, "'='")
		init := p.parseExpr()
		p.expect(lexer.Semicolon, "';'")
		return &ast.VariableDef{Name: name, Type: typ, Init: init, Span: p.span(begin)}
	case lexer.KwFunc:
		return p.parseFuncDef()
	default:
		p.errorf("expected 'global' or 'func', found %q", p.tok.Text)
		return nil
	}
}

func (p *parser) parseFuncDef() *ast.FuncDef {
	begin := p.tok.Begin
	p.advance() // 'func'
	name := p.parseIdentifier()
	p.expect(lexer.LParen, "'('")
	var params []ast.Param
	for p.tok.Kind != lexer.RParen && p.tok.Kind != lexer.EOF {
		pname := p.parseIdentifier()
		p.expect(lexer.Colon, "':'")
		ptyp := p.parseType()
		params = append(params, ast.Param{Name: pname, Type: ptyp})
		if p.tok.Kind == lexer.Comma {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RParen, "')'")

	var ret *ast.Type
	if p.tok.Kind == lexer.Arrow {
		p.advance()
		t := p.parseType()
		ret = &t
	}

	body := p.parseBlockBody()
	return &ast.FuncDef{Name: name, Params: params, ReturnType: ret, Body: body, Span: p.span(begin)}
}

func (p *parser) parseIdentifier() ast.Identifier {
	t := p.expect(lexer.Ident, "identifier")
	return ast.Identifier{Text: t.Text, Span: ast.Span{Begin: t.Begin, End: t.End}}
}

func (p *parser) parseType() ast.Type {
	if p.tok.Kind == lexer.LBracket {
		p.advance()
		elem := p.parseType()
		p.expect(lexer.RBracket, "']'")
		return ast.ArrayType(elem)
	}
	p.expect(lexer.KwInt, "'int'")
	return ast.IntType()
}

// --- statements ---

func (p *parser) parseBlockBody() []ast.Statement {
	p.expect(lexer.LBrace, "'{'")
	var stmts []ast.Statement
	for p.tok.Kind != lexer.RBrace && p.tok.Kind != lexer.EOF {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(lexer.RBrace, "'}'")
	return stmts
}

func (p *parser) parseStatement() ast.Statement {
	begin := p.tok.Begin
	switch p.tok.Kind {
	case lexer.KwLet:
		p.advance()
		name := p.parseIdentifier()
		p.expect(lexer.Assign, "'='")
		init := p.parseExpr()
		p.expect(lexer.Semicolon, "';'")
		return &ast.LetStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, Name: name, Init: init}

	case lexer.KwReturn:
		p.advance()
		var val ast.Exp
		if p.tok.Kind != lexer.Semicolon {
			val = p.parseExpr()
		}
		p.expect(lexer.Semicolon, "';'")
		return &ast.ReturnStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, Value: val}

	case lexer.KwIf:
		return p.parseIf()

	case lexer.KwWhile:
		p.advance()
		cond := p.parseExpr()
		body := p.parseBlockBody()
		return &ast.WhileStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, Cond: cond, Body: body}

	case lexer.KwBreak:
		p.advance()
		p.expect(lexer.Semicolon, "';'")
		return &ast.BreakStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}}

	case lexer.KwContinue:
		p.advance()
		p.expect(lexer.Semicolon, "';'")
		return &ast.ContinueStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}}

	case lexer.KwCmd:
		p.advance()
		fmtTok := p.expect(lexer.String, "string literal")
		var args []ast.Exp
		for p.tok.Kind == lexer.Comma {
			p.advance()
			args = append(args, p.parseExpr())
		}
		p.expect(lexer.Semicolon, "';'")
		return &ast.InlineCommandStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, FmtStr: fmtTok.Text, Args: args}

	case lexer.LBrace:
		body := p.parseBlockBody()
		return &ast.BlockStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, Body: body}

	default:
		e := p.parseExpr()
		if p.tok.Kind == lexer.Assign {
			p.advance()
			rhs := p.parseExpr()
			p.expect(lexer.Semicolon, "';'")
			return &ast.AssignStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, Lhs: e, Rhs: rhs}
		}
		p.expect(lexer.Semicolon, "';'")
		return &ast.ExpStmt{BaseStmt: ast.BaseStmt{Span: p.span(begin)}, Value: e}
	}
}

func (p *parser) parseIf() ast.Statement {
	begin := p.tok.Begin
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlockBody()

	var elseIfs []ast.ElseIfClause
	var elseBody []ast.Statement
	for p.tok.Kind == lexer.KwElse {
		p.advance()
		if p.tok.Kind == lexer.KwIf {
			p.advance()
			eCond := p.parseExpr()
			eBody := p.parseBlockBody()
			elseIfs = append(elseIfs, ast.ElseIfClause{Cond: eCond, Body: eBody})
			continue
		}
		elseBody = p.parseBlockBody()
		break
	}

	return &ast.IfStmt{
		BaseStmt: ast.BaseStmt{Span: p.span(begin)},
		Cond:     cond, Then: then, ElseIfs: elseIfs, Else: elseBody,
	}
}

// --- expressions (precedence climbing) ---

func (p *parser) parseExpr() ast.Exp { return p.parseRelational() }

func (p *parser) parseRelational() ast.Exp {
	left := p.parseAdditive()
	for {
		var op ast.BinaryOp
		switch p.tok.Kind {
		case lexer.Lt:
			op = ast.OpLt
		case lexer.Le:
			op = ast.OpLe
		case lexer.Gt:
			op = ast.OpGt
		case lexer.Ge:
			op = ast.OpGe
		case lexer.EqEq:
			op = ast.OpEq
		case lexer.Ne:
			op = ast.OpNe
		default:
			return left
		}
		begin := left.ExpSpan().Begin
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() ast.Exp {
	left := p.parseMultiplicative()
	for p.tok.Kind == lexer.Plus || p.tok.Kind == lexer.Minus {
		op := ast.OpAdd
		if p.tok.Kind == lexer.Minus {
			op = ast.OpSub
		}
		begin := left.ExpSpan().Begin
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseMultiplicative() ast.Exp {
	left := p.parseUnary()
	for p.tok.Kind == lexer.Star || p.tok.Kind == lexer.Slash || p.tok.Kind == lexer.Percent {
		var op ast.BinaryOp
		switch p.tok.Kind {
		case lexer.Star:
			op = ast.OpMul
		case lexer.Slash:
			op = ast.OpDiv
		case lexer.Percent:
			op = ast.OpMod
		}
		begin := left.ExpSpan().Begin
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Exp {
	begin := p.tok.Begin
	switch p.tok.Kind {
	case lexer.Plus:
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Op: ast.UnaryPositive, Operand: operand}
	case lexer.Minus:
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Op: ast.UnaryNegative, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Exp {
	e := p.parsePrimary()
	for p.tok.Kind == lexer.LBracket {
		begin := e.ExpSpan().Begin
		p.advance()
		sub := p.parseExpr()
		p.expect(lexer.RBracket, "']'")
		e = &ast.ArrayElementExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Array: e, Subscript: sub}
	}
	return e
}

func (p *parser) parsePrimary() ast.Exp {
	begin := p.tok.Begin
	switch p.tok.Kind {
	case lexer.Number:
		v := p.tok.Num
		p.advance()
		return &ast.NumberExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Value: v}

	case lexer.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.RParen, "')'")
		return e

	case lexer.KwNew:
		p.advance()
		p.expect(lexer.LBracket, "'['")
		length := p.parseExpr()
		p.expect(lexer.RBracket, "']'")
		p.expect(lexer.LParen, "'('")
		elem := p.parseExpr()
		p.expect(lexer.RParen, "')'")
		return &ast.NewArrayExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Length: length, Element: elem}

	case lexer.LBracket:
		return p.parseArrayLiteral()

	case lexer.Ident:
		return p.parseIdentExpr()
	}

	p.errorf("unexpected token %q", p.tok.Text)
	p.advance()
	return &ast.NumberExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Value: 0}
}

func (p *parser) parseArrayLiteral() ast.Exp {
	begin := p.tok.Begin
	p.advance() // '['
	var elems []ast.Exp
	for p.tok.Kind != lexer.RBracket && p.tok.Kind != lexer.EOF {
		elems = append(elems, p.parseExpr())
		if p.tok.Kind == lexer.Comma {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBracket, "']'")

	var declared *ast.Type
	if len(elems) == 0 && (p.tok.Kind == lexer.KwInt || p.tok.Kind == lexer.LBracket) {
		t := p.parseType()
		declared = &t
	}
	return &ast.SquareBracketsArrayExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, DeclaredElem: declared, Elements: elems}
}

func (p *parser) parseIdentExpr() ast.Exp {
	begin := p.tok.Begin
	first := p.parseIdentifier()

	var qualifier *ast.Identifier
	name := first
	if p.tok.Kind == lexer.Dot {
		p.advance()
		name = p.parseIdentifier()
		qualifier = &first
	}

	if p.tok.Kind == lexer.LParen {
		p.advance()
		var args []ast.Exp
		for p.tok.Kind != lexer.RParen && p.tok.Kind != lexer.EOF {
			args = append(args, p.parseExpr())
			if p.tok.Kind == lexer.Comma {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RParen, "')'")
		return &ast.FuncCallExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Qualifier: qualifier, Name: name, Args: args}
	}

	return &ast.VariableExp{BaseExp: ast.BaseExp{Span: p.span(begin)}, Qualifier: qualifier, Name: name}
}
