package machine

import "strings"

// Function is a first-class reference to a script-defined function: its
// name, parameter list, and the span of statement indices making up its
// body (spec §3's "Program.functions" entry, reified as a Value so it can
// be assigned to a variable, stored in a container, or passed as an
// argument).
type Function struct {
	Name       string
	Params     []string
	BodyStart  int // index of the first statement inside the function
	BodyEnd    int // index of the matching closer (exclusive)
	IsSub      bool // true for `call`/`label` subroutines (no params/return)
	Namespace  string
}

func (f *Function) String() string {
	return "<function " + f.qualifiedName() + "(" + strings.Join(f.Params, ", ") + ")>"
}
func (f *Function) Type() string { return "function" }
func (f *Function) Truth() bool  { return true }

func (f *Function) qualifiedName() string {
	if f.Namespace == "" {
		return f.Name
	}
	return f.Namespace + "." + f.Name
}

// functionValue returns the *Function standing in for the function-table
// entry name resolves to (namespace-qualified first, then global, mirroring
// resolveFunction's read order), or nil if name names neither. The same
// *Function is returned for every lookup of the same entry, so two
// references to one function compare equal by identity.
func (ip *Interpreter) functionValue(name string) *Function {
	qualified := name
	if ns := ip.namespace(); ns != "" {
		if _, ok := ip.Program.Functions[ns+"."+name]; ok {
			qualified = ns + "." + name
		}
	}
	fi, ok := ip.Program.Functions[qualified]
	if !ok {
		return nil
	}
	if ip.funcValues == nil {
		ip.funcValues = make(map[string]*Function)
	}
	if fn, ok := ip.funcValues[qualified]; ok {
		return fn
	}
	fn := &Function{
		Name:      fi.Name,
		Params:    fi.Params,
		BodyStart: fi.BodyStart,
		BodyEnd:   fi.BodyEnd,
		Namespace: fi.Namespace,
	}
	ip.funcValues[qualified] = fn
	return fn
}
