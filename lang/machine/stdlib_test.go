package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorMethodDispatchTable(t *testing.T) {
	ip := newTestInterp()
	v := NewVector([]Value{Int(1), Int(2), Int(3)})

	got, err := ip.vectorMethod(v, "get", []Value{Int(1)})
	require.NoError(t, err)
	require.Equal(t, Int(2), got)

	_, err = ip.vectorMethod(v, "push", []Value{Int(4)})
	require.NoError(t, err)
	require.Equal(t, 4, v.Len())

	_, err = ip.vectorMethod(v, "join", []Value{String(",")})
	require.NoError(t, err)

	_, err = ip.vectorMethod(v, "shuffle", nil)
	require.NoError(t, err)
	require.Equal(t, 4, v.Len())

	_, err = ip.vectorMethod(v, "nonsense", nil)
	require.Error(t, err)
	require.Equal(t, KindName, AsEvalError(err).Kind)
}

func TestHashMapMethodDispatchTableUsesInsertNotSet(t *testing.T) {
	m := NewHashMap(0)

	_, err := hashmapMethod(m, "insert", []Value{String("k"), Int(1)})
	require.NoError(t, err)

	v, err := hashmapMethod(m, "get", []Value{String("k")})
	require.NoError(t, err)
	require.Equal(t, Int(1), v)

	_, err = hashmapMethod(m, "set", []Value{String("k"), Int(2)})
	require.Error(t, err)
	require.Equal(t, KindName, AsEvalError(err).Kind)
}

func TestStringMethodDispatchTable(t *testing.T) {
	ip := newTestInterp()

	v, err := ip.callMethod(String("Hello"), "to_upper", nil)
	require.NoError(t, err)
	require.Equal(t, String("HELLO"), v)

	v, err = ip.callMethod(String("Hello"), "to_lower", nil)
	require.NoError(t, err)
	require.Equal(t, String("hello"), v)

	v, err = ip.callMethod(String("Hello"), "starts_with", []Value{String("He")})
	require.NoError(t, err)
	require.Equal(t, Bool(true), v)

	v, err = ip.callMethod(String("Hello"), "ends_with", []Value{String("lo")})
	require.NoError(t, err)
	require.Equal(t, Bool(true), v)

	v, err = ip.callMethod(String("Hello"), "substring", []Value{Int(1), Int(3)})
	require.NoError(t, err)
	require.Equal(t, String("el"), v)

	v, err = ip.callMethod(String("42"), "to_int", nil)
	require.NoError(t, err)
	require.Equal(t, Int(42), v)

	_, err = ip.callMethod(String("nope"), "to_int", nil)
	require.Error(t, err)
	require.Equal(t, KindType, AsEvalError(err).Kind)

	v, err = ip.callMethod(String("3.5"), "to_float", nil)
	require.NoError(t, err)
	require.Equal(t, Float(3.5), v)

	v, err = ip.callMethod(String("abc123"), "is_match", []Value{String(`\d+`)})
	require.NoError(t, err)
	require.Equal(t, Bool(true), v)
}

func TestMethodDispatchUnknownReceiverTypeIsTypeError(t *testing.T) {
	ip := newTestInterp()
	_, err := ip.callMethod(Int(1), "anything", nil)
	require.Error(t, err)
	require.Equal(t, KindType, AsEvalError(err).Kind)
}
