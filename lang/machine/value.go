// Package machine implements the rustcript value model and the interpreter
// that walks a parsed Program: scope frames, the call stack, the statement
// dispatcher, the access-chain engine, the sandbox, and the standard
// library. Values are shared by reference once assigned to a container
// (Vector, HashMap, Tuple, UserData); scalars are copied. There is no
// garbage collector: containers are acyclic by construction (spec §9), so
// ordinary Go garbage collection of the underlying Go values suffices —
// no reference counting is implemented, unlike the design note's
// suggestion, because Go's GC already reclaims acyclic graphs for free.
package machine

import "fmt"

// Value is the interface implemented by every value a script can observe:
// Null, Bool, Int, Float, String, Time, *Tuple, *Vector, *HashMap,
// *Function, and any host UserData.
type Value interface {
	// String returns the canonical textual form of the value, used both for
	// debugging and for implicit stringification in '+' concatenation and
	// print interpolation.
	String() string

	// Type names the value's dynamic type, as reported by TypeError messages
	// and exposed indirectly through is_match-style diagnostics.
	Type() string

	// Truth reports whether the value is truthy when used as a condition.
	Truth() bool
}

// Indexable is a value of known length that supports positional read
// access: Tuple, Vector, and String.
type Indexable interface {
	Value
	Len() int
	Index(i int) (Value, error)
}

// HasSetIndex is an Indexable whose elements may be reassigned in place
// (Vector, but not Tuple or String, which are immutable).
type HasSetIndex interface {
	Indexable
	SetIndex(i int, v Value) error
}

// Iterable abstracts the sequence a foreach loop walks. For a HashMap,
// iteration yields its keys in insertion order (spec §4.5, invariant I6).
type Iterable interface {
	Value
	Iterate() Iterator
}

// Iterator yields the elements of an Iterable. Callers must exhaust it or
// discard it; there is no Done/cleanup step since rustcript containers hold
// no external resources.
type Iterator interface {
	// Next reports whether another element is available, writing it to *p.
	Next(p *Value) bool
}

// Mapping is a value keyed by String, namely HashMap.
type Mapping interface {
	Value
	Get(key string) (Value, bool)
}

// HasSetKey is a Mapping whose entries can be inserted or overwritten.
type HasSetKey interface {
	Mapping
	SetKey(key string, v Value) error
}

// HasAttrs is implemented by UserData: a dotted access chain segment
// `.field` not followed by `(args)` reads through here.
type HasAttrs interface {
	Value
	Attr(name string) (Value, error)
}

// HasSetField is implemented by UserData: a dotted access chain segment
// `.field = value` writes through here.
type HasSetField interface {
	HasAttrs
	SetField(name string, v Value) error
}

// Callable wraps any value that can be invoked with a positional argument
// list (`value(args)`). UserData does not implement it: `.method(args)` on
// a UserData goes through UserData.CallMethod instead.
type Callable interface {
	Value
	Call(args []Value) (Value, error)
}

// EqualValues reports whether x and y are equal under rustcript's '=='
// semantics. It exposes compareEq, the same comparison the interpreter
// uses for '==', '!=' and match/case.
func EqualValues(x, y Value) (bool, error) {
	return compareEq(x, y)
}

// Stringify renders v the way implicit string coercion does: for '+'
// concatenation with a String operand, and for print interpolation.
func Stringify(v Value) string {
	if v == nil {
		return "null"
	}
	return v.String()
}

func typeError(format string, args ...any) error {
	return &EvalError{Kind: KindType, Message: fmt.Sprintf(format, args...)}
}
