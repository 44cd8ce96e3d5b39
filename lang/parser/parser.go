// Package parser turns a unified source string (as produced by Resolve)
// into an *ast.Program: a flat statement list plus the label, function,
// module, and jump-map side tables the interpreter dispatches against
// (spec §4.2). It also hosts the expression precedence-climbing
// parser (§4.1) shared by statement parsing and, at run time, by
// string-literal interpolation; evaluation itself lives in lang/machine.
package parser

import (
	"strings"

	"github.com/mna/rustcript/lang/ast"
	"github.com/mna/rustcript/lang/token"
)

// bracketEntry tracks one open block on the parser's bracket stack (spec
// §4.2 point 2).
type bracketEntry struct {
	openerIdx int
	kind      ast.StmtKind
}

type parser struct {
	lines []string
	lt    token.LineTable
	li    int // index of the next physical line to consume (0-based)

	prog     *ast.Program
	brackets []bracketEntry
	ns       []string // active namespace stack, for `global`/function registration

	// pendingChainOpener/-Closer defer an if/else_if/try/case closer's
	// ChainNext entry until we know whether a sibling (else_if/else/catch/
	// case/default) continues the chain, either later on the same physical
	// line or as the first statement of the next non-blank line.
	pendingChainOpener int
	pendingChainCloser int
}

// Parse builds a Program from unified source text and its accompanying
// line table (spec §4.2).
func Parse(source string, lt token.LineTable) (*ast.Program, error) {
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	p := &parser{lines: lines, lt: lt, prog: ast.NewProgram(), pendingChainOpener: -1, pendingChainCloser: -1}
	for p.li < len(p.lines) {
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
	p.finalizePendingChain()
	if len(p.brackets) > 0 {
		return nil, &Error{Kind: "SyntaxError", Message: "unclosed block at end of source"}
	}
	return p.prog, nil
}

func (p *parser) posAt(lineNo int) token.Position { return p.lt.At(lineNo) }

func (p *parser) namespace() string { return strings.Join(p.ns, ".") }

func (p *parser) qualify(name string) string {
	if len(p.ns) == 0 {
		return name
	}
	return p.namespace() + "." + name
}

func (p *parser) addStatement(s ast.Statement) int {
	p.prog.Statements = append(p.prog.Statements, s)
	return len(p.prog.Statements) - 1
}

func (p *parser) finalizePendingChain() {
	if p.pendingChainOpener >= 0 {
		p.prog.ChainNext[p.pendingChainOpener] = p.pendingChainCloser
		p.pendingChainOpener, p.pendingChainCloser = -1, -1
	}
}

// parseLine consumes one physical source line, which may yield several
// Statements: a closing `]` immediately followed by a chain continuation
// (`else_if`, `else`, `catch`, `case`, `default`) produces a Close plus a
// new opener on the same physical line. Statements record their line in
// the original file (pos.Line), not in the unified source.
func (p *parser) parseLine() error {
	lineNo := p.li + 1
	raw := stripComment(p.lines[p.li])
	p.li++
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	pos := p.posAt(lineNo)
	ts, terr := tokenize(pos, trimmed)
	if terr != nil {
		return terr
	}
	if ts.atEnd() {
		return nil
	}

	for !ts.atEnd() {
		if ts.peek().tok == token.RBRACK {
			ts.next()
			if err := p.closeBracket(pos); err != nil {
				return err
			}
			continue
		}
		switch ts.peek().tok {
		case token.ELSE_IF, token.ELSE, token.CATCH, token.CASE, token.DEFAULT:
		default:
			p.finalizePendingChain()
		}
		if err := p.parseStatement(ts, pos, pos.Line); err != nil {
			return err
		}
	}
	return nil
}

func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			inString = !inString
		case '#':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

// expectOpenBracket consumes the '[' that must follow every block
// header, tolerating the common style of placing it alone on the next
// source line.
func (p *parser) expectOpenBracket(ts *tokStream, pos token.Position) *Error {
	if ts.peek().tok == token.LBRACK {
		ts.next()
		return nil
	}
	if !ts.atEnd() {
		return syntaxErrorf(pos, "expected '[' to open block, got %s", ts.peek().tok)
	}
	for p.li < len(p.lines) {
		lineNo := p.li + 1
		raw := strings.TrimSpace(stripComment(p.lines[p.li]))
		p.li++
		if raw == "" {
			continue
		}
		if raw != "[" {
			return syntaxErrorf(p.posAt(lineNo), "expected '[' to open block, got %q", raw)
		}
		return nil
	}
	return syntaxErrorf(pos, "expected '[' to open block, reached end of source")
}

func (p *parser) pushBracket(kind ast.StmtKind, openerIdx int) {
	p.brackets = append(p.brackets, bracketEntry{openerIdx: openerIdx, kind: kind})
}

// isChainable reports whether kind's closer might be followed by a
// sibling continuing the same chain.
func isChainable(kind ast.StmtKind) bool {
	switch kind {
	case ast.If, ast.ElseIf, ast.Try, ast.Case:
		return true
	}
	return false
}

// isChainTerminal reports whether kind is the last possible member of
// its chain family: once it closes, ChainNext can be finalized right
// away since no sibling can ever follow.
func isChainTerminal(kind ast.StmtKind) bool {
	switch kind {
	case ast.Else, ast.Catch, ast.Default:
		return true
	}
	return false
}

// closeBracket handles a lone `]`: it pops the innermost open block and
// records its JumpMap entry. Chain-member closers defer their ChainNext
// entry (see pendingChainOpener) in case a sibling follows immediately.
func (p *parser) closeBracket(pos token.Position) *Error {
	if len(p.brackets) == 0 {
		return syntaxErrorf(pos, "unmatched ']'")
	}
	top := p.brackets[len(p.brackets)-1]
	p.brackets = p.brackets[:len(p.brackets)-1]

	closeIdx := p.addStatement(ast.Statement{Kind: ast.Close, Path: pos.Path, Line: pos.Line, OwnerOpener: top.openerIdx})
	p.prog.JumpMap[top.openerIdx] = closeIdx

	switch top.kind {
	case ast.FunctionDef:
		p.prog.Functions[p.funcKey(top.openerIdx)].BodyEnd = closeIdx
	case ast.ModuleOpen:
		p.ns = p.ns[:len(p.ns)-1]
		name := p.qualify(p.prog.Statements[top.openerIdx].Name)
		if m, ok := p.prog.Modules[name]; ok {
			m.BodyEnd = closeIdx
		}
	}

	p.finalizePendingChain()
	switch {
	case isChainable(top.kind):
		p.pendingChainOpener, p.pendingChainCloser = top.openerIdx, closeIdx
	case isChainTerminal(top.kind):
		p.prog.ChainNext[top.openerIdx] = closeIdx
	}
	return nil
}

func (p *parser) funcKey(openerIdx int) string {
	s := p.prog.Statements[openerIdx]
	if s.Namespace != "" {
		return s.Namespace + "." + s.Name
	}
	return s.Name
}
