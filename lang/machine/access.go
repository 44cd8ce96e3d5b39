package machine

import (
	"strconv"

	"github.com/mna/rustcript/lang/ast"
)

// readChain evaluates an access chain for a read: the head identifier
// followed by zero or more `.field`/`.<int>`/`[expr]` segments (spec
// §4.6). There is no autovivification; every intermediate segment must
// already resolve to a container or UserData.
func (ip *Interpreter) readChain(chain *ast.Chain) (Value, error) {
	v, err := ip.lookup(chain.Head)
	segs := chain.Segments
	if err != nil {
		nv, rest, ok := ip.readNamespacedGlobal(chain.Head, chain.Segments)
		if !ok {
			return nil, err
		}
		v, segs = nv, rest
	}
	for _, seg := range segs {
		v, err = ip.readSegment(v, seg)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// readNamespacedGlobal resolves chains like `Service.STATUS`, where head
// names a namespace introduced by an aliased import (spec §4.3's
// "namespace wrapping") rather than a script variable. lookup(head)
// always fails for these — a module name is never assigned as a
// value — so this only runs as a fallback. It walks field segments that
// name a nested module (`Outer.Inner. ...`) until it reaches one that
// names a global inside the resulting namespace, then returns that
// global plus whatever segments remain to be applied on top of it.
func (ip *Interpreter) readNamespacedGlobal(head string, segs []ast.Segment) (Value, []ast.Segment, bool) {
	if _, ok := ip.Program.Modules[head]; !ok {
		return nil, nil, false
	}
	ns := head
	for len(segs) > 0 && segs[0].Index == nil {
		candidate := ns + "." + segs[0].Field
		if _, ok := ip.Program.Modules[candidate]; !ok {
			break
		}
		ns, segs = candidate, segs[1:]
	}
	if len(segs) == 0 || segs[0].Index != nil {
		return nil, nil, false
	}
	v, ok := ip.globals.Get(ns + "." + segs[0].Field)
	if !ok {
		return nil, nil, false
	}
	return v, segs[1:], true
}

func (ip *Interpreter) readSegment(v Value, seg ast.Segment) (Value, error) {
	if seg.Index != nil {
		idx, err := ip.evalExpr(seg.Index)
		if err != nil {
			return nil, err
		}
		return readIndexValue(v, idx)
	}
	return readFieldValue(v, seg.Field)
}

func readIndexValue(v Value, idx Value) (Value, error) {
	if ix, ok := v.(Indexable); ok {
		i, err := toIndexInt(idx)
		if err != nil {
			return nil, err
		}
		return ix.Index(i)
	}
	if m, ok := v.(Mapping); ok {
		s, ok2 := idx.(String)
		if !ok2 {
			return nil, typeError("hashmap key must be a string, got %s", idx.Type())
		}
		val, found := m.Get(string(s))
		if !found {
			return nil, &EvalError{Kind: KindKey, Message: "key " + strconv.Quote(string(s)) + " not found"}
		}
		return val, nil
	}
	return nil, typeError("value of type %s is not indexable", v.Type())
}

func readFieldValue(v Value, field string) (Value, error) {
	if n, err := strconv.Atoi(field); err == nil {
		if ix, ok := v.(Indexable); ok {
			return ix.Index(n)
		}
	}
	if m, ok := v.(Mapping); ok {
		val, found := m.Get(field)
		if !found {
			return nil, &EvalError{Kind: KindKey, Message: "key " + strconv.Quote(field) + " not found"}
		}
		return val, nil
	}
	if ha, ok := v.(HasAttrs); ok {
		return ha.Attr(field)
	}
	return nil, typeError("value of type %s has no field %q", v.Type(), field)
}

func toIndexInt(v Value) (int, error) {
	i, ok := v.(Int)
	if !ok {
		return 0, typeError("index must be an integer, got %s", v.Type())
	}
	return int(i), nil
}

// writeChain resolves chain's parent container (if any) and assigns v to
// its final segment, or, for a bare identifier, writes it into scope
// according to varKind ("", "var", or "global"; spec §4.4).
func (ip *Interpreter) writeChain(chain *ast.Chain, varKind string, v Value) error {
	if chain.Leaf() {
		switch varKind {
		case "var":
			ip.assignVar(chain.Head, v)
		case "global":
			ip.assignGlobal(chain.Head, v)
		default:
			ip.assignAuto(chain.Head, v)
		}
		return nil
	}

	parent, err := ip.lookup(chain.Head)
	if err != nil {
		return err
	}
	for _, seg := range chain.Segments[:len(chain.Segments)-1] {
		parent, err = ip.readSegment(parent, seg)
		if err != nil {
			return err
		}
	}
	last := chain.Segments[len(chain.Segments)-1]
	if last.Index != nil {
		idx, err := ip.evalExpr(last.Index)
		if err != nil {
			return err
		}
		return writeIndexValue(parent, idx, v)
	}
	return writeFieldValue(parent, last.Field, v)
}

func writeIndexValue(parent Value, idx Value, v Value) error {
	if si, ok := parent.(HasSetIndex); ok {
		i, err := toIndexInt(idx)
		if err != nil {
			return err
		}
		return si.SetIndex(i, v)
	}
	if sk, ok := parent.(HasSetKey); ok {
		s, ok2 := idx.(String)
		if !ok2 {
			return typeError("hashmap key must be a string, got %s", idx.Type())
		}
		return sk.SetKey(string(s), v)
	}
	return typeError("value of type %s does not support index assignment", parent.Type())
}

func writeFieldValue(parent Value, field string, v Value) error {
	if n, err := strconv.Atoi(field); err == nil {
		if si, ok := parent.(HasSetIndex); ok {
			return si.SetIndex(n, v)
		}
	}
	if sk, ok := parent.(HasSetKey); ok {
		return sk.SetKey(field, v)
	}
	if sf, ok := parent.(HasSetField); ok {
		return sf.SetField(field, v)
	}
	return typeError("value of type %s has no settable field %q", parent.Type(), field)
}
