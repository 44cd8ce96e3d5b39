package machine

import "encoding/json"

// jsonFunc implements json.stringify/json.parse (spec §4.7). No example
// repo in the corpus brings its own JSON library (the pack's third-party
// stack covers hashing, CLI, env parsing, and YAML but not JSON), so this
// bridges the value model to Go's own encoding/json rather than inventing
// a hand-rolled encoder — see DESIGN.md.
func jsonFunc(fn string, args []Value) (Value, error) {
	switch fn {
	case "stringify":
		if len(args) != 1 && len(args) != 2 {
			return nil, &EvalError{Kind: KindArity, Message: argCountMsg(fn, 1, len(args))}
		}
		pretty := false
		if len(args) == 2 {
			b, ok := args[1].(Bool)
			if !ok {
				return nil, typeError("json.stringify: pretty argument must be a bool, got %s", args[1].Type())
			}
			pretty = bool(b)
		}
		var out []byte
		var err error
		if pretty {
			out, err = json.MarshalIndent(valueToJSON(args[0]), "", "  ")
		} else {
			out, err = json.Marshal(valueToJSON(args[0]))
		}
		if err != nil {
			return nil, &EvalError{Kind: KindType, Message: "json.stringify: " + err.Error()}
		}
		return String(out), nil
	case "parse":
		if err := wantArgs(fn, args, 1); err != nil {
			return nil, err
		}
		s, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		var raw any
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, &EvalError{Kind: KindType, Message: "json.parse: " + err.Error()}
		}
		return jsonToValue(raw), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "json has no function " + fn}
}

func valueToJSON(v Value) any {
	switch x := v.(type) {
	case nullType:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int32(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case *Tuple:
		out := make([]any, len(x.elems))
		for i, e := range x.elems {
			out[i] = valueToJSON(e)
		}
		return out
	case *Vector:
		out := make([]any, len(x.elems))
		for i, e := range x.elems {
			out[i] = valueToJSON(e)
		}
		return out
	case *HashMap:
		out := make(map[string]any, len(x.order))
		for _, k := range x.order {
			v, _ := x.Get(k)
			out[k] = valueToJSON(v)
		}
		return out
	}
	return v.String()
}

func jsonToValue(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null
	case bool:
		return Bool(x)
	case float64:
		if x == float64(int32(x)) {
			return Int(int32(x))
		}
		return Float(x)
	case string:
		return String(x)
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = jsonToValue(e)
		}
		return NewVector(elems)
	case map[string]any:
		m := NewHashMap(len(x))
		for k, v := range x {
			m.SetKey(k, jsonToValue(v))
		}
		return m
	}
	return Null
}
