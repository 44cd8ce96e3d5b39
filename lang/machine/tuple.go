package machine

import (
	"fmt"
	"strings"
)

// Tuple is a fixed-length, immutable-length ordered sequence whose elements
// may themselves differ in type (spec §3). Tuple is shared by reference
// once assigned, like Vector and HashMap.
type Tuple struct {
	elems []Value
}

var (
	_ Value     = (*Tuple)(nil)
	_ Indexable = (*Tuple)(nil)
	_ Iterable  = (*Tuple)(nil)
)

// NewTuple returns a tuple wrapping elems. The caller must not modify elems
// afterwards.
func NewTuple(elems []Value) *Tuple { return &Tuple{elems: elems} }

func (t *Tuple) String() string {
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		parts[i] = Stringify(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) Type() string { return "tuple" }
func (t *Tuple) Truth() bool  { return len(t.elems) > 0 }
func (t *Tuple) Len() int     { return len(t.elems) }

func (t *Tuple) Index(i int) (Value, error) {
	if i < 0 || i >= len(t.elems) {
		return nil, &EvalError{Kind: KindIndex, Message: fmt.Sprintf("tuple index %d out of range (len %d)", i, len(t.elems))}
	}
	return t.elems[i], nil
}

func (t *Tuple) Iterate() Iterator { return &sliceIterator{elems: t.elems} }

// Elems exposes the underlying slice read-only, for the host embedding API
// and the stdlib's json.stringify.
func (t *Tuple) Elems() []Value { return t.elems }

type sliceIterator struct {
	elems []Value
	i     int
}

func (it *sliceIterator) Next(p *Value) bool {
	if it.i >= len(it.elems) {
		return false
	}
	*p = it.elems[it.i]
	it.i++
	return true
}
