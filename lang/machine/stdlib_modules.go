package machine

import (
	"math"
)

// callModuleFunc dispatches `module.function(args)` for the five fixed
// module names recognized by the parser: math, rand, json, os, io (spec
// §4.7). os and io additionally consult the sandbox (spec §4.9).
func (ip *Interpreter) callModuleFunc(module, fn string, args []Value) (Value, error) {
	switch module {
	case "math":
		return mathFunc(fn, args)
	case "rand":
		return ip.randFunc(fn, args)
	case "json":
		return jsonFunc(fn, args)
	case "os":
		return ip.osFunc(fn, args)
	case "io":
		return ip.ioFunc(fn, args)
	}
	return nil, &EvalError{Kind: KindName, Message: "unknown module " + module}
}

func argFloat(args []Value, i int) (float64, error) {
	switch v := args[i].(type) {
	case Float:
		return float64(v), nil
	case Int:
		return float64(v), nil
	}
	return 0, typeError("argument %d must be numeric, got %s", i+1, args[i].Type())
}

func mathFunc(fn string, args []Value) (Value, error) {
	switch fn {
	case "abs":
		if err := wantArgs(fn, args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case Int:
			if v < 0 {
				return -v, nil
			}
			return v, nil
		case Float:
			return Float(math.Abs(float64(v))), nil
		}
		return nil, typeError("math.abs: argument must be numeric, got %s", args[0].Type())
	case "min":
		if err := wantArgs(fn, args, 2); err != nil {
			return nil, err
		}
		c, err := compareOrd(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if c <= 0 {
			return args[0], nil
		}
		return args[1], nil
	case "max":
		if err := wantArgs(fn, args, 2); err != nil {
			return nil, err
		}
		c, err := compareOrd(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if c >= 0 {
			return args[0], nil
		}
		return args[1], nil
	case "floor":
		f, err := oneFloatArg(fn, args)
		if err != nil {
			return nil, err
		}
		return Float(math.Floor(f)), nil
	case "ceil":
		f, err := oneFloatArg(fn, args)
		if err != nil {
			return nil, err
		}
		return Float(math.Ceil(f)), nil
	case "round":
		f, err := oneFloatArg(fn, args)
		if err != nil {
			return nil, err
		}
		return Float(math.Round(f)), nil
	case "sqrt":
		f, err := oneFloatArg(fn, args)
		if err != nil {
			return nil, err
		}
		return Float(math.Sqrt(f)), nil
	case "pow":
		if err := wantArgs(fn, args, 2); err != nil {
			return nil, err
		}
		base, err := argFloat(args, 0)
		if err != nil {
			return nil, err
		}
		exp, err := argFloat(args, 1)
		if err != nil {
			return nil, err
		}
		return Float(math.Pow(base, exp)), nil
	case "sin":
		f, err := oneFloatArg(fn, args)
		if err != nil {
			return nil, err
		}
		return Float(math.Sin(f)), nil
	case "cos":
		f, err := oneFloatArg(fn, args)
		if err != nil {
			return nil, err
		}
		return Float(math.Cos(f)), nil
	case "pi":
		if err := wantArgs(fn, args, 0); err != nil {
			return nil, err
		}
		return Float(math.Pi), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "math has no function " + fn}
}

func oneFloatArg(fn string, args []Value) (float64, error) {
	if err := wantArgs(fn, args, 1); err != nil {
		return 0, err
	}
	return argFloat(args, 0)
}

func (ip *Interpreter) randFunc(fn string, args []Value) (Value, error) {
	switch fn {
	case "int":
		if err := wantArgs(fn, args, 2); err != nil {
			return nil, err
		}
		lo, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		hi, err := argInt(args, 1)
		if err != nil {
			return nil, err
		}
		return ip.randInt(int64(lo), int64(hi)), nil
	case "float":
		if err := wantArgs(fn, args, 0); err != nil {
			return nil, err
		}
		return ip.randFloat(), nil
	case "bool":
		if err := wantArgs(fn, args, 0); err != nil {
			return nil, err
		}
		return ip.randBool(), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "rand has no function " + fn}
}
