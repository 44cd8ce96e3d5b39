package parser

import (
	"strconv"

	"github.com/mna/rustcript/lang/ast"
	"github.com/mna/rustcript/lang/token"
)

// parseStatement parses and appends one Statement (or, for block
// openers, pushes a bracketEntry) starting at ts's current position. It
// consumes only that statement's tokens (for an opener, its header and
// '['); parseLine handles whatever statements and closers follow on the
// same line, as in `if n <= 1 [ return 1 ]`.
func (p *parser) parseStatement(ts *tokStream, pos token.Position, lineNo int) *Error {
	it := ts.peek()

	switch it.tok {
	case token.ELSE_IF, token.ELSE, token.CATCH, token.CASE, token.DEFAULT:
		return p.parseChainContinuation(ts, pos)
	case token.IF:
		ts.next()
		cond, err := parseExpr(ts)
		if err != nil {
			return err
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.If, Path: pos.Path, Line: lineNo, Cond: cond})
		p.pushBracket(ast.If, idx)
		return nil
	case token.WHILE:
		ts.next()
		cond, err := parseExpr(ts)
		if err != nil {
			return err
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.While, Path: pos.Path, Line: lineNo, Cond: cond})
		p.pushBracket(ast.While, idx)
		return nil
	case token.FOR:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		start, err := parseExpr(ts)
		if err != nil {
			return err
		}
		end, err := parseExpr(ts)
		if err != nil {
			return err
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.For, Path: pos.Path, Line: lineNo, LoopVar: nameTok.val.Str, RangeStart: start, RangeEnd: end})
		p.pushBracket(ast.For, idx)
		return nil
	case token.FOREACH:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		if _, err := ts.expect(token.IN); err != nil {
			return err
		}
		coll, err := parseExpr(ts)
		if err != nil {
			return err
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.Foreach, Path: pos.Path, Line: lineNo, ElemVar: nameTok.val.Str, IterVal: coll})
		p.pushBracket(ast.Foreach, idx)
		return nil
	case token.LOOP:
		ts.next()
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.Loop, Path: pos.Path, Line: lineNo})
		p.pushBracket(ast.Loop, idx)
		return nil
	case token.BREAK:
		ts.next()
		target := p.innermostLoop()
		if target < 0 {
			return syntaxErrorf(pos, "'break' outside any loop")
		}
		p.addStatement(ast.Statement{Kind: ast.Break, Path: pos.Path, Line: lineNo, TargetOpener: target})
		return nil
	case token.MATCH:
		ts.next()
		subj, err := parseExpr(ts)
		if err != nil {
			return err
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.Match, Path: pos.Path, Line: lineNo, Cond: subj})
		p.pushBracket(ast.Match, idx)
		return nil
	case token.TRY:
		ts.next()
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.Try, Path: pos.Path, Line: lineNo})
		p.pushBracket(ast.Try, idx)
		return nil
	case token.FUNCTION:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		var params []string
		for ts.peek().tok == token.IDENT {
			params = append(params, ts.next().val.Str)
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.FunctionDef, Path: pos.Path, Line: lineNo, Name: nameTok.val.Str, Params: params, Namespace: p.namespace()})
		p.prog.Functions[p.qualify(nameTok.val.Str)] = &ast.FunctionInfo{
			Name: nameTok.val.Str, Params: params, BodyStart: idx + 1, Namespace: p.namespace(),
		}
		p.pushBracket(ast.FunctionDef, idx)
		return nil
	case token.RETURN:
		ts.next()
		var val ast.Expr
		hasVal := false
		if !ts.atEnd() {
			e, err := parseExpr(ts)
			if err != nil {
				return err
			}
			val, hasVal = e, true
		}
		p.addStatement(ast.Statement{Kind: ast.Return, Path: pos.Path, Line: lineNo, Expr: val, HasValue: hasVal})
		return nil
	case token.LABEL:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		idx := len(p.prog.Statements)
		if _, dup := p.prog.Labels[p.qualify(nameTok.val.Str)]; dup {
			return syntaxErrorf(pos, "duplicate label %q", nameTok.val.Str)
		}
		p.prog.Labels[p.qualify(nameTok.val.Str)] = idx
		p.addStatement(ast.Statement{Kind: ast.Label, Path: pos.Path, Line: lineNo, Name: nameTok.val.Str})
		return nil
	case token.CALL:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.CallSub, Path: pos.Path, Line: lineNo, Name: nameTok.val.Str})
		return nil
	case token.GOTO:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.Goto, Path: pos.Path, Line: lineNo, Name: nameTok.val.Str})
		return nil
	case token.MODULE:
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		if err := p.expectOpenBracket(ts, pos); err != nil {
			return err
		}
		idx := p.addStatement(ast.Statement{Kind: ast.ModuleOpen, Path: pos.Path, Line: lineNo, Name: nameTok.val.Str})
		p.prog.Modules[p.qualify(nameTok.val.Str)] = &ast.ModuleInfo{Name: nameTok.val.Str, BodyStart: idx + 1}
		p.ns = append(p.ns, nameTok.val.Str)
		p.pushBracket(ast.ModuleOpen, idx)
		return nil
	case token.METHOD:
		ts.next()
		e, err := parseExpr(ts)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.Method, Path: pos.Path, Line: lineNo, Expr: e})
		return nil
	case token.PRINT:
		ts.next()
		e, err := parseExpr(ts)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.Print, Path: pos.Path, Line: lineNo, Expr: e})
		return nil
	case token.INPUT:
		ts.next()
		destTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		var prompt ast.Expr
		if !ts.atEnd() {
			e, err := parseExpr(ts)
			if err != nil {
				return err
			}
			prompt = e
		}
		p.addStatement(ast.Statement{Kind: ast.Input, Path: pos.Path, Line: lineNo, Dest: &ast.Chain{Head: destTok.val.Str}, Expr: prompt})
		return nil
	case token.EXEC:
		ts.next()
		e, err := parseExpr(ts)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.Exec, Path: pos.Path, Line: lineNo, Expr: e})
		return nil
	case token.VAR, token.GLOBAL:
		varKind := "var"
		if it.tok == token.GLOBAL {
			varKind = "global"
		}
		ts.next()
		nameTok, err := ts.expect(token.IDENT)
		if err != nil {
			return err
		}
		if _, err := ts.expect(token.EQ); err != nil {
			return err
		}
		rhs, err := parseExpr(ts)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.Assign, Path: pos.Path, Line: lineNo, VarKind: varKind, Dest: &ast.Chain{Head: nameTok.val.Str}, Expr: rhs})
		return nil
	case token.IDENT:
		return p.parseAssignOrThreeAddress(ts, pos, lineNo)
	}
	return syntaxErrorf(pos, "unexpected token %s at start of statement", it.tok)
}

// parseChainContinuation parses else_if/else/catch/case/default, linking
// it to the chain member whose closer was just popped. The first case or
// default directly inside a match block starts a new chain.
func (p *parser) parseChainContinuation(ts *tokStream, pos token.Position) *Error {
	prevOpener := p.pendingChainOpener
	if prevOpener < 0 {
		tok := ts.peek().tok
		inMatch := len(p.brackets) > 0 && p.brackets[len(p.brackets)-1].kind == ast.Match
		if !inMatch || (tok != token.CASE && tok != token.DEFAULT) {
			return syntaxErrorf(pos, "%s without a preceding if/try/case block", tok)
		}
	}
	p.pendingChainOpener, p.pendingChainCloser = -1, -1

	it := ts.next()
	var kind ast.StmtKind
	var cond ast.Expr
	switch it.tok {
	case token.ELSE_IF:
		kind = ast.ElseIf
		e, err := parseExpr(ts)
		if err != nil {
			return err
		}
		cond = e
	case token.ELSE:
		kind = ast.Else
	case token.CATCH:
		kind = ast.Catch
	case token.CASE:
		kind = ast.Case
		e, err := parseExpr(ts)
		if err != nil {
			return err
		}
		cond = e
	case token.DEFAULT:
		kind = ast.Default
	}
	if err := p.expectOpenBracket(ts, pos); err != nil {
		return err
	}
	idx := p.addStatement(ast.Statement{Kind: kind, Path: pos.Path, Line: pos.Line, Cond: cond})
	if prevOpener >= 0 {
		p.prog.ChainNext[prevOpener] = idx
	}
	p.pushBracket(kind, idx)
	return nil
}

// innermostLoop returns the opener index of the nearest enclosing
// while/for/foreach/loop block, or -1 if break appears outside one.
func (p *parser) innermostLoop() int {
	for i := len(p.brackets) - 1; i >= 0; i-- {
		switch p.brackets[i].kind {
		case ast.While, ast.For, ast.Foreach, ast.Loop:
			return p.brackets[i].openerIdx
		}
	}
	return -1
}

// parseAssignOrThreeAddress handles every statement beginning with a
// bare identifier: `NAME = expr`, `NAME += expr` (and -=, *=, /=), and
// the three-address sugar `NAME expr` (spec §9: sugar for `NAME = expr`).
// A bare call `name(args)` used as a statement is rejected — it must be
// prefixed with `method`.
func (p *parser) parseAssignOrThreeAddress(ts *tokStream, pos token.Position, lineNo int) *Error {
	nameTok := ts.next()
	dest, err := parseChainTail(ts, nameTok.val.Str)
	if err != nil {
		return err
	}

	switch ts.peek().tok {
	case token.EQ:
		ts.next()
		rhs, err := parseExpr(ts)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.Assign, Path: pos.Path, Line: lineNo, Dest: dest, Expr: rhs})
		return nil
	case token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ:
		opTok := ts.next()
		rhs, err := parseExpr(ts)
		if err != nil {
			return err
		}
		p.addStatement(ast.Statement{Kind: ast.CompoundAssign, Path: pos.Path, Line: lineNo, Dest: dest, CompoundOp: compoundOpText(opTok.tok), Expr: rhs})
		return nil
	case token.LPAREN:
		return syntaxErrorf(pos, "call expression used as a statement; prefix with 'method'")
	}

	if !dest.Leaf() {
		return syntaxErrorf(pos, "expected '=' after access-chain target")
	}
	rhs, err := parseExpr(ts)
	if err != nil {
		return err
	}
	p.addStatement(ast.Statement{Kind: ast.Assign, Path: pos.Path, Line: lineNo, Dest: dest, Expr: rhs})
	return nil
}

func compoundOpText(tok token.Token) string {
	switch tok {
	case token.PLUSEQ:
		return "+"
	case token.MINUSEQ:
		return "-"
	case token.STAREQ:
		return "*"
	case token.SLASHEQ:
		return "/"
	}
	return ""
}

// parseChainTail parses the `.field`/`.int`/`[expr]` segments following
// an already-consumed head identifier, for use as an assignment
// destination (never a call).
func parseChainTail(ts *tokStream, head string) (*ast.Chain, *Error) {
	chain := &ast.Chain{Head: head}
	for {
		switch ts.peek().tok {
		case token.DOT:
			ts.next()
			seg := ts.next()
			switch seg.tok {
			case token.IDENT:
				chain.Segments = append(chain.Segments, ast.Segment{Field: seg.val.Str})
			case token.INT:
				chain.Segments = append(chain.Segments, ast.Segment{Field: strconv.FormatInt(seg.val.Int, 10)})
			default:
				return nil, syntaxErrorf(ts.pos, "expected field name after '.', got %s", seg.tok)
			}
		case token.LBRACK:
			ts.next()
			idx, err := parseExpr(ts)
			if err != nil {
				return nil, err
			}
			if _, err := ts.expect(token.RBRACK); err != nil {
				return nil, err
			}
			chain.Segments = append(chain.Segments, ast.Segment{Index: idx})
		default:
			return chain, nil
		}
	}
}
