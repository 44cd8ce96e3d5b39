package machine_test

import (
	"testing"

	"github.com/mna/rustcript/lang/machine"
	"github.com/stretchr/testify/require"
)

func TestVectorPushPopInsertRemove(t *testing.T) {
	v := machine.NewVector(nil)
	v.Push(machine.Int(1))
	v.Push(machine.Int(2))
	require.Equal(t, 2, v.Len())

	require.NoError(t, v.Insert(1, machine.Int(99)))
	elem, err := v.Index(1)
	require.NoError(t, err)
	require.Equal(t, machine.Int(99), elem)

	last, err := v.Pop()
	require.NoError(t, err)
	require.Equal(t, machine.Int(2), last)

	require.NoError(t, v.Remove(0))
	require.Equal(t, 1, v.Len())
}

func TestVectorIndexOutOfRange(t *testing.T) {
	v := machine.NewVector([]machine.Value{machine.Int(1)})
	_, err := v.Index(5)
	require.Error(t, err)
	ee := machine.AsEvalError(err)
	require.Equal(t, machine.KindIndex, ee.Kind)
}

func TestHashMapInsertionOrderPreserved(t *testing.T) {
	m := machine.NewHashMap(0)
	require.NoError(t, m.SetKey("b", machine.Int(1)))
	require.NoError(t, m.SetKey("a", machine.Int(2)))
	require.NoError(t, m.SetKey("c", machine.Int(3)))

	keys := m.Keys()
	var got []string
	for _, e := range keys.Elems() {
		got = append(got, string(e.(machine.String)))
	}
	require.Equal(t, []string{"b", "a", "c"}, got)

	// overwriting an existing key must not change its position.
	require.NoError(t, m.SetKey("b", machine.Int(42)))
	keys = m.Keys()
	got = got[:0]
	for _, e := range keys.Elems() {
		got = append(got, string(e.(machine.String)))
	}
	require.Equal(t, []string{"b", "a", "c"}, got)
}

func TestHashMapRemoveAndContains(t *testing.T) {
	m := machine.NewHashMap(0)
	require.NoError(t, m.SetKey("x", machine.Int(1)))
	require.True(t, m.Contains("x"))
	require.True(t, m.Remove("x"))
	require.False(t, m.Contains("x"))
	require.False(t, m.Remove("x"))
}

func TestTupleIsFixedAndHeterogeneous(t *testing.T) {
	tup := machine.NewTuple([]machine.Value{machine.Int(1), machine.String("two"), machine.Bool(true)})
	require.Equal(t, 3, tup.Len())
	v, err := tup.Index(2)
	require.NoError(t, err)
	require.Equal(t, machine.Bool(true), v)
}

func TestEqualValues(t *testing.T) {
	eq, err := machine.EqualValues(machine.Int(1), machine.Int(1))
	require.NoError(t, err)
	require.True(t, eq)

	eq, err = machine.EqualValues(machine.String("a"), machine.String("b"))
	require.NoError(t, err)
	require.False(t, eq)
}
