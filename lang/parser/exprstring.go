package parser

import (
	"github.com/mna/rustcript/lang/ast"
	"github.com/mna/rustcript/lang/token"
)

// ParseExprString parses a single, self-contained expression, such as the
// text inside a `{expr}` interpolation span of a string literal, evaluated
// against the running scope at print/assignment time rather than at parse
// time (see ast.StringLit's doc comment).
func ParseExprString(src string) (ast.Expr, error) {
	pos := token.Position{Path: "<interpolation>", Line: 1}
	ts, terr := tokenize(pos, src)
	if terr != nil {
		return nil, terr
	}
	e, err := parseExpr(ts)
	if err != nil {
		return nil, err
	}
	if !ts.atEnd() {
		return nil, syntaxErrorf(pos, "unexpected trailing token %s in interpolation", ts.peek().tok)
	}
	return e, nil
}
