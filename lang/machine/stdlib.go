package machine

// callBuiltin dispatches a free function call `name(args)` that is not a
// script-defined function: currently just `time()` (spec §3's note that
// the time statement is sugar for a builtin call, see timeval.go). The ok
// return reports whether name is a recognized builtin at all, letting the
// caller fall through to a NameError otherwise.
func callBuiltin(name string, args []Value) (Value, error, bool) {
	switch name {
	case "time":
		if len(args) != 0 {
			return nil, &EvalError{Kind: KindArity, Message: argCountMsg(name, 0, len(args))}, true
		}
		return NowTime(), nil, true
	}
	return nil, nil, false
}

// callMethod dispatches `recv.method(args)` for every built-in variant
// (Vector, HashMap, String) by (variant, method-name), per spec §4.7.
// UserData receivers are handled separately, via UserData.CallMethod.
func (ip *Interpreter) callMethod(recv Value, method string, args []Value) (Value, error) {
	switch v := recv.(type) {
	case *Vector:
		return ip.vectorMethod(v, method, args)
	case *HashMap:
		return hashmapMethod(v, method, args)
	case String:
		return stringMethod(v, method, args)
	case Time:
		return timeMethod(v, method, args)
	}
	return nil, &EvalError{Kind: KindType, Message: "value of type " + recv.Type() + " has no method " + method}
}

// timeMethod lets Time's four accessors be called either as fields
// (t.date, via Time.Attr) or as zero-arg methods (t.date()), since spec
// §4.7 lists them in the same "Methods" table as every other stdlib
// surface.
func timeMethod(t Time, method string, args []Value) (Value, error) {
	if err := wantArgs(method, args, 0); err != nil {
		return nil, err
	}
	return t.Attr(method)
}

func wantArgs(name string, args []Value, n int) error {
	if len(args) != n {
		return &EvalError{Kind: KindArity, Message: argCountMsg(name, n, len(args))}
	}
	return nil
}

func argInt(args []Value, i int) (int, error) {
	n, ok := args[i].(Int)
	if !ok {
		return 0, typeError("argument %d must be an integer, got %s", i+1, args[i].Type())
	}
	return int(n), nil
}

func argString(args []Value, i int) (string, error) {
	s, ok := args[i].(String)
	if !ok {
		return "", typeError("argument %d must be a string, got %s", i+1, args[i].Type())
	}
	return string(s), nil
}

func (ip *Interpreter) vectorMethod(v *Vector, method string, args []Value) (Value, error) {
	switch method {
	case "push":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		v.Push(args[0])
		return Null, nil
	case "pop":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return v.Pop()
	case "get":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		return v.Index(i)
	case "shuffle":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		v.Shuffle(ip.rng.ensure())
		return Null, nil
	case "insert":
		if err := wantArgs(method, args, 2); err != nil {
			return nil, err
		}
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		return Null, v.Insert(i, args[1])
	case "remove":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		return Null, v.Remove(i)
	case "join":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		sep, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return String(v.Join(sep)), nil
	case "clear":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		v.Clear()
		return Null, nil
	case "len":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return Int(v.Len()), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "vector has no method " + method}
}

func hashmapMethod(m *HashMap, method string, args []Value) (Value, error) {
	switch method {
	case "get":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		k, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		val, ok := m.Get(k)
		if !ok {
			return nil, &EvalError{Kind: KindKey, Message: "key " + k + " not found"}
		}
		return val, nil
	case "insert":
		if err := wantArgs(method, args, 2); err != nil {
			return nil, err
		}
		k, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Null, m.SetKey(k, args[1])
	case "remove":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		k, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Bool(m.Remove(k)), nil
	case "contains":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		k, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Bool(m.Contains(k)), nil
	case "keys":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return m.Keys(), nil
	case "len":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return Int(m.Len()), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "hashmap has no method " + method}
}
