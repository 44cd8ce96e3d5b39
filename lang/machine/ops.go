package machine

import "fmt"

// compareEq implements '==' across the value model. Numeric variants
// compare across Int/Float by promoting the Int operand, mirroring the
// promotion rule arithmetic uses (spec §4.1). Containers compare
// structurally, matching the spec's description of Tuple/Vector equality
// as element-wise.
func compareEq(x, y Value) (bool, error) {
	switch a := x.(type) {
	case nullType:
		_, ok := y.(nullType)
		return ok, nil
	case Bool:
		b, ok := y.(Bool)
		return ok && a == b, nil
	case Int:
		switch b := y.(type) {
		case Int:
			return a == b, nil
		case Float:
			return Float(a) == b, nil
		}
		return false, nil
	case Float:
		switch b := y.(type) {
		case Float:
			return a == b, nil
		case Int:
			return a == Float(b), nil
		}
		return false, nil
	case String:
		b, ok := y.(String)
		return ok && a == b, nil
	case Time:
		b, ok := y.(Time)
		return ok && a.Cmp(b) == 0, nil
	case *Tuple:
		b, ok := y.(*Tuple)
		if !ok || len(a.elems) != len(b.elems) {
			return false, nil
		}
		for i := range a.elems {
			eq, err := compareEq(a.elems[i], b.elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *Vector:
		b, ok := y.(*Vector)
		if !ok || len(a.elems) != len(b.elems) {
			return false, nil
		}
		for i := range a.elems {
			eq, err := compareEq(a.elems[i], b.elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *HashMap:
		b, ok := y.(*HashMap)
		if !ok || len(a.order) != len(b.order) {
			return false, nil
		}
		for _, k := range a.order {
			av, _ := a.Get(k)
			bv, ok := b.Get(k)
			if !ok {
				return false, nil
			}
			eq, err := compareEq(av, bv)
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *Function:
		b, ok := y.(*Function)
		return ok && a == b, nil
	}
	// UserData and any other Value: identity comparison only.
	return x == y, nil
}

// compareOrd implements '<' and friends for the ordered variants: Int,
// Float (with promotion), String (byte-lexicographic), and Time (by
// timestamp, spec §4.1).
func compareOrd(x, y Value) (int, error) {
	switch a := x.(type) {
	case Int:
		switch b := y.(type) {
		case Int:
			return cmpInt64(int64(a), int64(b)), nil
		case Float:
			return cmpFloat(float64(a), float64(b)), nil
		}
	case Float:
		switch b := y.(type) {
		case Float:
			return cmpFloat(float64(a), float64(b)), nil
		case Int:
			return cmpFloat(float64(a), float64(b)), nil
		}
	case String:
		if b, ok := y.(String); ok {
			switch {
			case a < b:
				return -1, nil
			case a > b:
				return 1, nil
			default:
				return 0, nil
			}
		}
	case Time:
		if b, ok := y.(Time); ok {
			return a.Cmp(b), nil
		}
	}
	return 0, typeError("cannot compare %s and %s", x.Type(), y.Type())
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Binary evaluates a two-operand arithmetic or string operator. op is one
// of "+", "-", "*", "/", "%". '+' concatenates when either operand is a
// String (spec §4.1, implicit stringification); otherwise both operands
// must be numeric, promoting to Float if either is a Float. Integer
// division and modulo by zero raise ArithmeticError; float division by
// zero follows IEEE 754 and yields Inf/NaN rather than erroring (see
// DESIGN.md for the Open Question this resolves).
func Binary(op string, x, y Value) (Value, error) {
	if op == "+" {
		if _, ok := x.(String); ok {
			return String(Stringify(x) + Stringify(y)), nil
		}
		if _, ok := y.(String); ok {
			return String(Stringify(x) + Stringify(y)), nil
		}
	}

	xi, xIsInt := x.(Int)
	yi, yIsInt := y.(Int)
	xf, xIsFloat := x.(Float)
	yf, yIsFloat := y.(Float)

	if !xIsInt && !xIsFloat {
		return nil, typeError("unsupported operand type for %s: %s", op, x.Type())
	}
	if !yIsInt && !yIsFloat {
		return nil, typeError("unsupported operand type for %s: %s", op, y.Type())
	}

	if xIsInt && yIsInt {
		return binaryInt(op, xi, yi)
	}

	var a, b float64
	if xIsInt {
		a = float64(xi)
	} else {
		a = float64(xf)
	}
	if yIsInt {
		b = float64(yi)
	} else {
		b = float64(yf)
	}
	return binaryFloat(op, a, b)
}

func binaryInt(op string, x, y Int) (Value, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, &EvalError{Kind: KindArithmetic, Message: "integer division by zero"}
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return nil, &EvalError{Kind: KindArithmetic, Message: "integer modulo by zero"}
		}
		return x % y, nil
	}
	return nil, &EvalError{Kind: KindInternal, Message: fmt.Sprintf("unknown binary operator %q", op)}
}

func binaryFloat(op string, x, y float64) (Value, error) {
	switch op {
	case "+":
		return Float(x + y), nil
	case "-":
		return Float(x - y), nil
	case "*":
		return Float(x * y), nil
	case "/":
		return Float(x / y), nil
	case "%":
		return Float(mod(x, y)), nil
	}
	return nil, &EvalError{Kind: KindInternal, Message: fmt.Sprintf("unknown binary operator %q", op)}
}

func mod(x, y float64) float64 {
	r := x - y*float64(int64(x/y))
	return r
}

// Unary evaluates a one-operand operator: "-" (negation) or "!" (logical
// not).
func Unary(op string, x Value) (Value, error) {
	switch op {
	case "-":
		switch v := x.(type) {
		case Int:
			return -v, nil
		case Float:
			return -v, nil
		}
		return nil, typeError("unsupported operand type for unary -: %s", x.Type())
	case "!":
		return Bool(!x.Truth()), nil
	}
	return nil, &EvalError{Kind: KindInternal, Message: fmt.Sprintf("unknown unary operator %q", op)}
}
