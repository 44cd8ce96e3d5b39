package machine

import (
	"fmt"
	"math/rand"
	"strings"
)

// Vector is a dynamically growable ordered sequence (spec §3), shared by
// reference once assigned: two variables bound to the same Vector observe
// each other's mutations, the way Starlark's list or nenuphar's Array do
// (lang/machine/vector.go is adapted from the teacher's array.go, dropping
// the frozen/itercount machinery since rustcript has no freeze operation
// and no concurrent iteration to guard against — spec §5 restricts
// execution to a single interpreter on a single task).
type Vector struct {
	elems []Value
}

var (
	_ Value       = (*Vector)(nil)
	_ Indexable   = (*Vector)(nil)
	_ HasSetIndex = (*Vector)(nil)
	_ Iterable    = (*Vector)(nil)
)

// NewVector returns a Vector containing a copy of elems.
func NewVector(elems []Value) *Vector {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return &Vector{elems: cp}
}

func (v *Vector) String() string {
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = Stringify(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *Vector) Type() string { return "vector" }
func (v *Vector) Truth() bool  { return len(v.elems) > 0 }
func (v *Vector) Len() int     { return len(v.elems) }

func (v *Vector) Index(i int) (Value, error) {
	if i < 0 || i >= len(v.elems) {
		return nil, &EvalError{Kind: KindIndex, Message: fmt.Sprintf("vector index %d out of range (len %d)", i, len(v.elems))}
	}
	return v.elems[i], nil
}

func (v *Vector) SetIndex(i int, val Value) error {
	if i < 0 || i >= len(v.elems) {
		return &EvalError{Kind: KindIndex, Message: fmt.Sprintf("vector index %d out of range (len %d)", i, len(v.elems))}
	}
	v.elems[i] = val
	return nil
}

func (v *Vector) Iterate() Iterator { return &sliceIterator{elems: v.elems} }

// Elems exposes the underlying slice read-only.
func (v *Vector) Elems() []Value { return v.elems }

// Push appends val, implementing the `push` stdlib method.
func (v *Vector) Push(val Value) { v.elems = append(v.elems, val) }

// Pop removes and returns the last element, implementing `pop`.
func (v *Vector) Pop() (Value, error) {
	if len(v.elems) == 0 {
		return nil, &EvalError{Kind: KindIndex, Message: "pop from empty vector"}
	}
	last := v.elems[len(v.elems)-1]
	v.elems = v.elems[:len(v.elems)-1]
	return last, nil
}

// Insert inserts val at position i, implementing `insert(i, v)`.
func (v *Vector) Insert(i int, val Value) error {
	if i < 0 || i > len(v.elems) {
		return &EvalError{Kind: KindIndex, Message: fmt.Sprintf("vector insert index %d out of range (len %d)", i, len(v.elems))}
	}
	v.elems = append(v.elems, nil)
	copy(v.elems[i+1:], v.elems[i:])
	v.elems[i] = val
	return nil
}

// Remove removes the element at position i, implementing `remove(i)`.
func (v *Vector) Remove(i int) error {
	if i < 0 || i >= len(v.elems) {
		return &EvalError{Kind: KindIndex, Message: fmt.Sprintf("vector remove index %d out of range (len %d)", i, len(v.elems))}
	}
	v.elems = append(v.elems[:i], v.elems[i+1:]...)
	return nil
}

// Join concatenates the elements' string forms with sep, implementing
// `join(sep)`.
func (v *Vector) Join(sep string) string {
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = Stringify(e)
	}
	return strings.Join(parts, sep)
}

// Shuffle randomizes element order in place, implementing `shuffle`.
func (v *Vector) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(v.elems), func(i, j int) {
		v.elems[i], v.elems[j] = v.elems[j], v.elems[i]
	})
}

// Clear empties the vector, implementing `clear`.
func (v *Vector) Clear() { v.elems = v.elems[:0] }
