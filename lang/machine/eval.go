package machine

import (
	"strconv"
	"strings"

	"github.com/mna/rustcript/lang/ast"
	"github.com/mna/rustcript/lang/parser"
)

// evalExpr evaluates one expression node against the interpreter's current
// scope (spec §4.1). Function calls reached through CallExpr recurse into
// the statement dispatcher via callFunction, so evaluating an expression
// may itself execute an arbitrary number of statements.
func (ip *Interpreter) evalExpr(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return Int(n.Value), nil
	case *ast.FloatLit:
		return Float(n.Value), nil
	case *ast.BoolLit:
		return Bool(n.Value), nil
	case *ast.NullLit:
		return Null, nil
	case *ast.StringLit:
		return ip.evalStringLit(n.Raw)
	case *ast.IdentExpr:
		return ip.readChain(n.Chain)
	case *ast.TupleLit:
		elems, err := ip.evalExprList(n.Elems)
		if err != nil {
			return nil, err
		}
		return NewTuple(elems), nil
	case *ast.VectorLit:
		elems, err := ip.evalExprList(n.Elems)
		if err != nil {
			return nil, err
		}
		return NewVector(elems), nil
	case *ast.MapLit:
		m := NewHashMap(len(n.Entries))
		for _, entry := range n.Entries {
			k, err := ip.evalExpr(entry.Key)
			if err != nil {
				return nil, err
			}
			ks, ok := k.(String)
			if !ok {
				return nil, typeError("hashmap key must be a string, got %s", k.Type())
			}
			v, err := ip.evalExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			m.SetKey(string(ks), v)
		}
		return m, nil
	case *ast.UnaryExpr:
		x, err := ip.evalExpr(n.X)
		if err != nil {
			return nil, err
		}
		return Unary(n.Op, x)
	case *ast.BinaryExpr:
		return ip.evalBinary(n)
	case *ast.CallExpr:
		return ip.evalCall(n)
	case *ast.MethodCallExpr:
		return ip.evalMethodCall(n)
	case *ast.ModuleCallExpr:
		return ip.evalModuleCall(n)
	}
	return nil, &EvalError{Kind: KindInternal, Message: "unhandled expression node"}
}

func (ip *Interpreter) evalExprList(exprs []ast.Expr) ([]Value, error) {
	out := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := ip.evalExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalBinary implements short-circuiting for && and ||, and otherwise
// dispatches to Binary/compareEq/compareOrd (spec §4.1).
func (ip *Interpreter) evalBinary(n *ast.BinaryExpr) (Value, error) {
	switch n.Op {
	case "&&":
		x, err := ip.evalExpr(n.X)
		if err != nil {
			return nil, err
		}
		if !x.Truth() {
			return Bool(false), nil
		}
		y, err := ip.evalExpr(n.Y)
		if err != nil {
			return nil, err
		}
		return Bool(y.Truth()), nil
	case "||":
		x, err := ip.evalExpr(n.X)
		if err != nil {
			return nil, err
		}
		if x.Truth() {
			return Bool(true), nil
		}
		y, err := ip.evalExpr(n.Y)
		if err != nil {
			return nil, err
		}
		return Bool(y.Truth()), nil
	}

	x, err := ip.evalExpr(n.X)
	if err != nil {
		return nil, err
	}
	y, err := ip.evalExpr(n.Y)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "==":
		eq, err := compareEq(x, y)
		return Bool(eq), err
	case "!=":
		eq, err := compareEq(x, y)
		return Bool(!eq), err
	case "<", "<=", ">", ">=":
		c, err := compareOrd(x, y)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "<":
			return Bool(c < 0), nil
		case "<=":
			return Bool(c <= 0), nil
		case ">":
			return Bool(c > 0), nil
		case ">=":
			return Bool(c >= 0), nil
		}
	}
	return Binary(n.Op, x, y)
}

// evalCall dispatches `name(args)`: a script-defined function if one
// exists, else a builtin (spec §4.7's free-function table, e.g. `time()`).
func (ip *Interpreter) evalCall(n *ast.CallExpr) (Value, error) {
	args, err := ip.evalExprList(n.Args)
	if err != nil {
		return nil, err
	}
	if fn, ok := ip.resolveFunction(n.Name); ok {
		if len(args) != len(fn.Params) {
			return nil, &EvalError{Kind: KindArity, Message: argCountMsg(n.Name, len(fn.Params), len(args))}
		}
		return ip.callFunction(fn, args)
	}
	if v, err, ok := callBuiltin(n.Name, args); ok {
		return v, err
	}
	return nil, &EvalError{Kind: KindName, Message: "name '" + n.Name + "' is not defined"}
}

// resolveFunction looks up a called-by-name function, first in the active
// namespace, then globally, mirroring the read order of lookup.
func (ip *Interpreter) resolveFunction(name string) (*ast.FunctionInfo, bool) {
	if ns := ip.namespace(); ns != "" {
		if fn, ok := ip.Program.Functions[ns+"."+name]; ok {
			return fn, true
		}
	}
	if fn, ok := ip.Program.Functions[name]; ok {
		return fn, true
	}
	return nil, false
}

func (ip *Interpreter) evalMethodCall(n *ast.MethodCallExpr) (Value, error) {
	recv, err := ip.evalExpr(n.Recv)
	if err != nil {
		return nil, err
	}
	args, err := ip.evalExprList(n.Args)
	if err != nil {
		return nil, err
	}
	if ud, ok := recv.(*UserData); ok {
		return ud.CallMethod(n.Method, args)
	}
	return ip.callMethod(recv, n.Method, args)
}

func (ip *Interpreter) evalModuleCall(n *ast.ModuleCallExpr) (Value, error) {
	args, err := ip.evalExprList(n.Args)
	if err != nil {
		return nil, err
	}
	return ip.callModuleFunc(n.Module, n.Func, args)
}

// evalStringLit resolves every `{expr}` span embedded in raw against the
// current scope, concatenating literal text with each interpolated
// expression's stringified value (spec §4.1).
func (ip *Interpreter) evalStringLit(raw string) (Value, error) {
	if !strings.ContainsRune(raw, '{') {
		return String(raw), nil
	}
	var b strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '{' {
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				b.WriteString(raw[i:])
				break
			}
			inner := raw[i+1 : i+end]
			e, err := parser.ParseExprString(inner)
			if err != nil {
				return nil, &EvalError{Kind: KindSyntax, Message: "invalid interpolation: " + err.Error()}
			}
			v, err := ip.evalExpr(e)
			if err != nil {
				return nil, err
			}
			b.WriteString(Stringify(v))
			i += end + 1
			continue
		}
		b.WriteByte(c)
		i++
	}
	return String(b.String()), nil
}

func argCountMsg(name string, want, got int) string {
	return name + "() takes " + strconv.Itoa(want) + " argument(s), got " + strconv.Itoa(got)
}
