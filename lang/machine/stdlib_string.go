package machine

import (
	"regexp"
	"strconv"
	"strings"
)

// stringMethod dispatches String's methods (spec §4.7). Strings are
// immutable, so every method returns a new value rather than mutating in
// place. is_match/find_all/regex_replace are the one corner of the
// standard library backed by Go's own regexp package rather than a pack
// dependency — no regex engine appears anywhere in the retrieval pack,
// so this is the idiomatic stdlib reach (see DESIGN.md).
func stringMethod(s String, method string, args []Value) (Value, error) {
	str := string(s)
	switch method {
	case "len":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return Int(len(str)), nil
	case "to_upper":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return String(strings.ToUpper(str)), nil
	case "to_lower":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return String(strings.ToLower(str)), nil
	case "trim":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		return String(strings.TrimSpace(str)), nil
	case "contains":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		sub, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Bool(strings.Contains(str, sub)), nil
	case "starts_with":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		sub, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Bool(strings.HasPrefix(str, sub)), nil
	case "ends_with":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		sub, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Bool(strings.HasSuffix(str, sub)), nil
	case "substring":
		if err := wantArgs(method, args, 2); err != nil {
			return nil, err
		}
		start, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		end, err := argInt(args, 1)
		if err != nil {
			return nil, err
		}
		if start < 0 || end > len(str) || start > end {
			return nil, &EvalError{Kind: KindIndex, Message: "substring range out of bounds"}
		}
		return String(str[start:end]), nil
	case "index_of":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		sub, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return Int(strings.Index(str, sub)), nil
	case "to_int":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(str), 10, 32)
		if err != nil {
			return nil, &EvalError{Kind: KindType, Message: "cannot convert " + str + " to int"}
		}
		return Int(n), nil
	case "to_float":
		if err := wantArgs(method, args, 0); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil, &EvalError{Kind: KindType, Message: "cannot convert " + str + " to float"}
		}
		return Float(f), nil
	case "replace":
		if err := wantArgs(method, args, 2); err != nil {
			return nil, err
		}
		old, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		nw, err := argString(args, 1)
		if err != nil {
			return nil, err
		}
		return String(strings.ReplaceAll(str, old, nw)), nil
	case "split":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		sep, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(str, sep)
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = String(p)
		}
		return NewVector(elems), nil
	case "is_match":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		re, err := compileRegex(args, 0)
		if err != nil {
			return nil, err
		}
		return Bool(re.MatchString(str)), nil
	case "find_all":
		if err := wantArgs(method, args, 1); err != nil {
			return nil, err
		}
		re, err := compileRegex(args, 0)
		if err != nil {
			return nil, err
		}
		matches := re.FindAllString(str, -1)
		elems := make([]Value, len(matches))
		for i, m := range matches {
			elems[i] = String(m)
		}
		return NewVector(elems), nil
	case "regex_replace":
		if err := wantArgs(method, args, 2); err != nil {
			return nil, err
		}
		re, err := compileRegex(args, 0)
		if err != nil {
			return nil, err
		}
		repl, err := argString(args, 1)
		if err != nil {
			return nil, err
		}
		return String(re.ReplaceAllString(str, repl)), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "string has no method " + method}
}

func compileRegex(args []Value, i int) (*regexp.Regexp, error) {
	pattern, err := argString(args, i)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &EvalError{Kind: KindType, Message: "invalid regular expression: " + err.Error()}
	}
	return re, nil
}
