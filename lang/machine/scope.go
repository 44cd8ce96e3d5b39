package machine

// curFrame returns the top frame, or nil if executing at top level (spec
// §4.4: "If no frame exists, 'top frame' is the global scope").
func (ip *Interpreter) curFrame() *HashMap {
	if len(ip.frames) == 0 {
		return nil
	}
	return ip.frames[len(ip.frames)-1]
}

// namespace returns the dotted namespace the program counter currently
// executes within, by finding the innermost enclosing module block
// around ip.pc, or "" at top level / inside a function with no
// namespace.
func (ip *Interpreter) namespace() string {
	best := ""
	bestStart := -1
	for name, m := range ip.Program.Modules {
		if ip.pc >= m.BodyStart && ip.pc < m.BodyEnd && m.BodyStart > bestStart {
			best, bestStart = name, m.BodyStart
		}
	}
	return best
}

// lookup resolves a bare identifier per spec §4.4's read order: current
// frame, then globals, then (if executing inside a namespace) the
// namespace-qualified global.
func (ip *Interpreter) lookup(name string) (Value, error) {
	if f := ip.curFrame(); f != nil {
		if v, ok := f.Get(name); ok {
			return v, nil
		}
	}
	if v, ok := ip.globals.Get(name); ok {
		return v, nil
	}
	if ns := ip.namespace(); ns != "" {
		if v, ok := ip.globals.Get(ns + "." + name); ok {
			return v, nil
		}
	}
	if fn := ip.functionValue(name); fn != nil {
		return fn, nil
	}
	return nil, &EvalError{Kind: KindName, Message: "name '" + name + "' is not defined"}
}

// assignAuto implements "auto" write semantics (spec §4.4): update
// wherever the name already lives (frame, then globals), else create it
// in the top frame (or globals, if no frame is open).
func (ip *Interpreter) assignAuto(name string, v Value) {
	if f := ip.curFrame(); f != nil {
		if _, ok := f.Get(name); ok {
			f.SetKey(name, v)
			return
		}
	}
	if _, ok := ip.globals.Get(name); ok {
		ip.globals.SetKey(name, v)
		return
	}
	if f := ip.curFrame(); f != nil {
		f.SetKey(name, v)
		return
	}
	ip.globals.SetKey(name, v)
}

// assignVar implements `var x = v`: always the top frame, or globals if
// no frame is open.
func (ip *Interpreter) assignVar(name string, v Value) {
	if f := ip.curFrame(); f != nil {
		f.SetKey(name, v)
		return
	}
	ip.globals.SetKey(name, v)
}

// assignGlobal implements `global x = v`: always globals, prefixed by
// the active namespace.
func (ip *Interpreter) assignGlobal(name string, v Value) {
	if ns := ip.namespace(); ns != "" {
		name = ns + "." + name
	}
	ip.globals.SetKey(name, v)
}
