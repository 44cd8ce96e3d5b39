package machine

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
)

// HashMap is a mapping from String keys to Value, preserving insertion
// order on iteration (spec §3, invariant "foreach over a HashMap yields
// keys in insertion order"). The teacher's lang/machine/map.go already
// wraps dolthub/swiss the same way (a hash table for O(1) access plus a
// structure on the side for anything swiss.Map doesn't give for free); here
// the "anything else" is an ordered key slice, since swiss tables make no
// iteration-order guarantee at all.
type HashMap struct {
	table *swiss.Map[string, Value]
	order []string
}

var (
	_ Value      = (*HashMap)(nil)
	_ Mapping    = (*HashMap)(nil)
	_ HasSetKey  = (*HashMap)(nil)
	_ Iterable   = (*HashMap)(nil)
)

// NewHashMap returns an empty HashMap with initial capacity for at least
// size entries.
func NewHashMap(size int) *HashMap {
	if size < 0 {
		size = 0
	}
	return &HashMap{table: swiss.NewMap[string, Value](uint32(size))}
}

func (m *HashMap) String() string {
	parts := make([]string, 0, len(m.order))
	for _, k := range m.order {
		v, _ := m.table.Get(k)
		parts = append(parts, fmt.Sprintf("%q: %s", k, Stringify(v)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (m *HashMap) Type() string { return "hashmap" }
func (m *HashMap) Truth() bool  { return len(m.order) > 0 }
func (m *HashMap) Len() int     { return len(m.order) }

func (m *HashMap) Get(key string) (Value, bool) {
	return m.table.Get(key)
}

func (m *HashMap) SetKey(key string, v Value) error {
	if _, existed := m.table.Get(key); !existed {
		m.order = append(m.order, key)
	}
	m.table.Put(key, v)
	return nil
}

// Remove deletes key, implementing the `remove(k)` stdlib method. It
// reports whether the key was present.
func (m *HashMap) Remove(key string) bool {
	if _, ok := m.table.Get(key); !ok {
		return false
	}
	m.table.Delete(key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether key is present, implementing `contains(k)`.
func (m *HashMap) Contains(key string) bool {
	_, ok := m.table.Get(key)
	return ok
}

// Keys returns a Vector of the map's keys in insertion order, implementing
// the `keys` stdlib method.
func (m *HashMap) Keys() *Vector {
	elems := make([]Value, len(m.order))
	for i, k := range m.order {
		elems[i] = String(k)
	}
	return &Vector{elems: elems}
}

// Iterate walks the map's keys in insertion order, per spec §4.5's foreach
// rule for HashMap.
func (m *HashMap) Iterate() Iterator {
	keys := make([]Value, len(m.order))
	for i, k := range m.order {
		keys[i] = String(k)
	}
	return &sliceIterator{elems: keys}
}
