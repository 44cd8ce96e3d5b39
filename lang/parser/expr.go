package parser

import (
	"strconv"

	"github.com/mna/rustcript/lang/ast"
	"github.com/mna/rustcript/lang/token"
)

// moduleNames are the bare identifiers that introduce a module-function
// call (`module.function(args)`) rather than a method call on a script
// value, per spec §4.7.
var moduleNames = map[string]bool{
	"math": true, "rand": true, "json": true, "os": true, "io": true,
}

// binPrec gives each binary operator's precedence, high binds tighter
// (spec §4.1: unary ! highest, then * / %, then + -, then comparisons,
// then &&, then || lowest).
func binPrec(tok token.Token) int {
	switch tok {
	case token.STAR, token.SLASH, token.PERCENT:
		return 5
	case token.PLUS, token.MINUS:
		return 4
	case token.EQEQ, token.BANGEQ, token.LT, token.LE, token.GT, token.GE:
		return 3
	case token.ANDAND:
		return 2
	case token.OROR:
		return 1
	}
	return 0
}

func binOpText(tok token.Token) string {
	switch tok {
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.EQEQ:
		return "=="
	case token.BANGEQ:
		return "!="
	case token.LT:
		return "<"
	case token.LE:
		return "<="
	case token.GT:
		return ">"
	case token.GE:
		return ">="
	case token.ANDAND:
		return "&&"
	case token.OROR:
		return "||"
	}
	return tok.String()
}

// parseExpr parses a full expression at minimum precedence 1.
func parseExpr(s *tokStream) (ast.Expr, *Error) {
	return parseBinExpr(s, 1)
}

func parseBinExpr(s *tokStream, minPrec int) (ast.Expr, *Error) {
	lhs, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for {
		tok := s.peek().tok
		prec := binPrec(tok)
		if prec == 0 || prec < minPrec {
			return lhs, nil
		}
		s.next()
		rhs, err := parseBinExpr(s, prec+1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Op: binOpText(tok), X: lhs, Y: rhs}
	}
}

func parseUnary(s *tokStream) (ast.Expr, *Error) {
	switch s.peek().tok {
	case token.BANG:
		s.next()
		x, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "!", X: x}, nil
	case token.MINUS:
		s.next()
		x, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "-", X: x}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s *tokStream) (ast.Expr, *Error) {
	it := s.next()
	switch it.tok {
	case token.INT:
		return &ast.IntLit{Value: int32(it.val.Int)}, nil
	case token.FLOAT:
		return &ast.FloatLit{Value: it.val.Float}, nil
	case token.BOOL:
		return &ast.BoolLit{Value: it.val.Bool}, nil
	case token.STRING:
		return &ast.StringLit{Raw: it.val.Str}, nil
	case token.LPAREN:
		return parseParenOrTuple(s)
	case token.LBRACE:
		return parseBraceLit(s)
	case token.LBRACK:
		return parseBracketVector(s)
	case token.IDENT:
		if it.val.Str == "null" {
			return &ast.NullLit{}, nil
		}
		return parseIdentOrCall(s, it.val.Str)
	}
	return nil, syntaxErrorf(s.pos, "unexpected token %s in expression", it.tok)
}

func parseArgs(s *tokStream) ([]ast.Expr, *Error) {
	var args []ast.Expr
	if s.peek().tok == token.RPAREN {
		s.next()
		return args, nil
	}
	for {
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if s.peek().tok == token.COMMA {
			s.next()
			continue
		}
		break
	}
	if _, err := s.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func parseParenOrTuple(s *tokStream) (ast.Expr, *Error) {
	if s.peek().tok == token.RPAREN {
		s.next()
		return &ast.TupleLit{}, nil
	}
	first, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	if s.peek().tok != token.COMMA {
		if _, err := s.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return first, nil // parenthesized grouping, not a 1-element tuple
	}
	elems := []ast.Expr{first}
	for s.peek().tok == token.COMMA {
		s.next()
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := s.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.TupleLit{Elems: elems}, nil
}

// parseBraceLit parses `{...}`, which is a Vector literal unless the
// first element is followed by ':', making it a HashMap literal (spec
// §4.1: "distinguished from Vector by presence of ':' at the first key
// position").
func parseBraceLit(s *tokStream) (ast.Expr, *Error) {
	if s.peek().tok == token.RBRACE {
		s.next()
		return &ast.VectorLit{}, nil
	}
	first, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	if s.peek().tok == token.COLON {
		s.next()
		val, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		entries := []ast.MapEntry{{Key: first, Value: val}}
		for s.peek().tok == token.COMMA {
			s.next()
			k, err := parseExpr(s)
			if err != nil {
				return nil, err
			}
			if _, err := s.expect(token.COLON); err != nil {
				return nil, err
			}
			v, err := parseExpr(s)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
		}
		if _, err := s.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.MapLit{Entries: entries}, nil
	}
	elems := []ast.Expr{first}
	for s.peek().tok == token.COMMA {
		s.next()
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := s.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.VectorLit{Elems: elems}, nil
}

func parseBracketVector(s *tokStream) (ast.Expr, *Error) {
	if s.peek().tok == token.RBRACK {
		s.next()
		return &ast.VectorLit{}, nil
	}
	var elems []ast.Expr
	for {
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if s.peek().tok == token.COMMA {
			s.next()
			continue
		}
		break
	}
	if _, err := s.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return &ast.VectorLit{Elems: elems}, nil
}

// parseIdentOrCall handles everything that can follow a bare identifier:
// a direct call `name(args)`, a module call `module.func(args)`, a method
// call `recv.method(args)`, or an access chain `name.field[i]…`.
func parseIdentOrCall(s *tokStream, name string) (ast.Expr, *Error) {
	if s.peek().tok == token.LPAREN {
		s.next()
		args, err := parseArgs(s)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: name, Args: args}, nil
	}

	chain := &ast.Chain{Head: name}
	isModule := moduleNames[name]

	for {
		switch s.peek().tok {
		case token.DOT:
			s.next()
			seg := s.next()
			switch seg.tok {
			case token.IDENT:
				if s.peek().tok == token.LPAREN {
					s.next()
					args, err := parseArgs(s)
					if err != nil {
						return nil, err
					}
					if isModule && chain.Leaf() {
						return &ast.ModuleCallExpr{Module: name, Func: seg.val.Str, Args: args}, nil
					}
					return &ast.MethodCallExpr{Recv: &ast.IdentExpr{Chain: chain}, Method: seg.val.Str, Args: args}, nil
				}
				chain.Segments = append(chain.Segments, ast.Segment{Field: seg.val.Str})
			case token.INT:
				chain.Segments = append(chain.Segments, ast.Segment{Field: strconv.FormatInt(seg.val.Int, 10)})
			default:
				return nil, syntaxErrorf(s.pos, "expected field name after '.', got %s", seg.tok)
			}
		case token.LBRACK:
			// A '[' that does not start a complete `[expr]` segment opens the
			// block of a header such as `if ok [` or `foreach k in m [ ... ]`,
			// so the chain ends before it.
			save := s.i
			s.next()
			idx, err := parseExpr(s)
			if err == nil {
				_, err = s.expect(token.RBRACK)
			}
			if err != nil {
				s.i = save
				return &ast.IdentExpr{Chain: chain}, nil
			}
			chain.Segments = append(chain.Segments, ast.Segment{Index: idx})
		default:
			return &ast.IdentExpr{Chain: chain}, nil
		}
	}
}
