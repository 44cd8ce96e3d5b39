package machine

import (
	"testing"

	"github.com/mna/rustcript/lang/ast"
	"github.com/stretchr/testify/require"
)

func newTestInterp() *Interpreter {
	return New(ast.NewProgram())
}

func fieldSeg(name string) ast.Segment { return ast.Segment{Field: name} }

func indexSeg(expr ast.Expr) ast.Segment { return ast.Segment{Index: expr} }

func intLit(n int) ast.Expr { return &ast.IntLit{Value: int32(n)} }

func TestReadChainDottedNumericPrefersIndexable(t *testing.T) {
	ip := newTestInterp()
	v := NewVector([]Value{Int(10), Int(20), Int(30)})
	ip.globals.SetKey("v", v)

	chain := &ast.Chain{Head: "v", Segments: []ast.Segment{fieldSeg("1")}}
	got, err := ip.readChain(chain)
	require.NoError(t, err)
	require.Equal(t, Int(20), got)
}

func TestReadChainFieldOnHashMap(t *testing.T) {
	ip := newTestInterp()
	m := NewHashMap(0)
	require.NoError(t, m.SetKey("name", String("rc")))
	ip.globals.SetKey("cfg", m)

	chain := &ast.Chain{Head: "cfg", Segments: []ast.Segment{fieldSeg("name")}}
	got, err := ip.readChain(chain)
	require.NoError(t, err)
	require.Equal(t, String("rc"), got)
}

func TestReadChainIndexOutOfRangeIsCatchable(t *testing.T) {
	ip := newTestInterp()
	v := NewVector([]Value{Int(1), Int(2)})
	ip.globals.SetKey("v", v)

	chain := &ast.Chain{Head: "v", Segments: []ast.Segment{indexSeg(intLit(5))}}
	_, err := ip.readChain(chain)
	require.Error(t, err)
	require.Equal(t, KindIndex, AsEvalError(err).Kind)
}

func TestReadChainMissingIntermediateSegmentErrorsNoAutovivify(t *testing.T) {
	ip := newTestInterp()
	m := NewHashMap(0)
	ip.globals.SetKey("cfg", m)

	// cfg.missing.deeper: "missing" isn't present, so the chain must fail
	// at that segment rather than silently creating an intermediate value.
	chain := &ast.Chain{Head: "cfg", Segments: []ast.Segment{fieldSeg("missing"), fieldSeg("deeper")}}
	_, err := ip.readChain(chain)
	require.Error(t, err)
	require.Equal(t, KindKey, AsEvalError(err).Kind)
}

func TestWriteChainLeafUsesVarKind(t *testing.T) {
	ip := newTestInterp()

	require.NoError(t, ip.writeChain(&ast.Chain{Head: "x"}, "", Int(1)))
	v, ok := ip.globals.Get("x")
	require.True(t, ok)
	require.Equal(t, Int(1), v)
}

func TestWriteChainIndexAssignsIntoVector(t *testing.T) {
	ip := newTestInterp()
	v := NewVector([]Value{Int(1), Int(2), Int(3)})
	ip.globals.SetKey("v", v)

	chain := &ast.Chain{Head: "v", Segments: []ast.Segment{indexSeg(intLit(1))}}
	require.NoError(t, ip.writeChain(chain, "", Int(99)))

	elem, err := v.Index(1)
	require.NoError(t, err)
	require.Equal(t, Int(99), elem)
}

func TestWriteChainFieldAssignsIntoHashMap(t *testing.T) {
	ip := newTestInterp()
	m := NewHashMap(0)
	ip.globals.SetKey("cfg", m)

	chain := &ast.Chain{Head: "cfg", Segments: []ast.Segment{fieldSeg("name")}}
	require.NoError(t, ip.writeChain(chain, "", String("rc")))

	val, found := m.Get("name")
	require.True(t, found)
	require.Equal(t, String("rc"), val)
}

func TestWriteChainScalarParentRejectsFieldAssignment(t *testing.T) {
	ip := newTestInterp()
	ip.globals.SetKey("n", Int(1))

	chain := &ast.Chain{Head: "n", Segments: []ast.Segment{fieldSeg("x")}}
	err := ip.writeChain(chain, "", Int(2))
	require.Error(t, err)
}

// testHostObject is a minimal HostObject used to exercise the UserData
// bridge between scripts and host-supplied values (spec §4.6's access
// chain extends to UserData the same way it does to HashMap/Vector).
type testHostObject struct {
	name  string
	calls []string
}

func (h *testHostObject) TypeName() string { return "widget" }

func (h *testHostObject) Get(name string) (Value, error) {
	if name == "name" {
		return String(h.name), nil
	}
	return nil, &EvalError{Kind: KindKey, Message: "no such field " + name}
}

func (h *testHostObject) Set(name string, v Value) error {
	if name != "name" {
		return &EvalError{Kind: KindKey, Message: "no such field " + name}
	}
	s, ok := v.(String)
	if !ok {
		return typeError("name must be a string, got %s", v.Type())
	}
	h.name = string(s)
	return nil
}

func (h *testHostObject) Call(method string, args []Value) (Value, error) {
	h.calls = append(h.calls, method)
	switch method {
	case "greet":
		return String("hello " + h.name), nil
	default:
		return nil, &EvalError{Kind: KindName, Message: "no such method " + method}
	}
}

func TestUserDataAttrReadsThroughHostObject(t *testing.T) {
	ud := NewUserData(&testHostObject{name: "gizmo"})
	v, err := ud.Attr("name")
	require.NoError(t, err)
	require.Equal(t, String("gizmo"), v)

	_, err = ud.Attr("bogus")
	require.Error(t, err)
}

func TestUserDataSetFieldWritesThroughHostObject(t *testing.T) {
	host := &testHostObject{name: "gizmo"}
	ud := NewUserData(host)
	require.NoError(t, ud.SetField("name", String("sprocket")))
	require.Equal(t, "sprocket", host.name)

	require.Error(t, ud.SetField("name", Int(1)))
}

func TestUserDataCallMethodDispatchesToHostObject(t *testing.T) {
	host := &testHostObject{name: "gizmo"}
	ud := NewUserData(host)

	v, err := ud.CallMethod("greet", nil)
	require.NoError(t, err)
	require.Equal(t, String("hello gizmo"), v)
	require.Equal(t, []string{"greet"}, host.calls)

	_, err = ud.CallMethod("explode", nil)
	require.Error(t, err)
}

func TestReadChainResolvesNamespacedGlobalFromOutsideModule(t *testing.T) {
	ip := newTestInterp()
	ip.Program.Modules["Service"] = &ast.ModuleInfo{Name: "Service", BodyStart: 1, BodyEnd: 3}
	ip.globals.SetKey("Service.STATUS", String("Ready"))
	ip.globals.SetKey("STATUS", String("Idle"))

	chain := &ast.Chain{Head: "Service", Segments: []ast.Segment{fieldSeg("STATUS")}}
	got, err := ip.readChain(chain)
	require.NoError(t, err)
	require.Equal(t, String("Ready"), got)

	bare, err := ip.readChain(&ast.Chain{Head: "STATUS"})
	require.NoError(t, err)
	require.Equal(t, String("Idle"), bare)
}

func TestReadChainNamespacedGlobalContinuesThroughFurtherSegments(t *testing.T) {
	ip := newTestInterp()
	ip.Program.Modules["Service"] = &ast.ModuleInfo{Name: "Service", BodyStart: 1, BodyEnd: 3}
	m := NewHashMap(0)
	require.NoError(t, m.SetKey("name", String("rc")))
	ip.globals.SetKey("Service.cfg", m)

	chain := &ast.Chain{Head: "Service", Segments: []ast.Segment{fieldSeg("cfg"), fieldSeg("name")}}
	got, err := ip.readChain(chain)
	require.NoError(t, err)
	require.Equal(t, String("rc"), got)
}

func TestReadChainNestedNamespaceWalksSubmoduleChain(t *testing.T) {
	ip := newTestInterp()
	ip.Program.Modules["Outer"] = &ast.ModuleInfo{Name: "Outer", BodyStart: 1, BodyEnd: 10}
	ip.Program.Modules["Outer.Inner"] = &ast.ModuleInfo{Name: "Inner", BodyStart: 2, BodyEnd: 9}
	ip.globals.SetKey("Outer.Inner.STATUS", String("Ready"))

	chain := &ast.Chain{Head: "Outer", Segments: []ast.Segment{fieldSeg("Inner"), fieldSeg("STATUS")}}
	got, err := ip.readChain(chain)
	require.NoError(t, err)
	require.Equal(t, String("Ready"), got)
}

func TestReadChainUnknownHeadStillRaisesNameError(t *testing.T) {
	ip := newTestInterp()
	_, err := ip.readChain(&ast.Chain{Head: "nope", Segments: []ast.Segment{fieldSeg("x")}})
	require.Error(t, err)
	require.Equal(t, KindName, AsEvalError(err).Kind)
}

func TestReadChainThroughUserDataField(t *testing.T) {
	ip := newTestInterp()
	ud := NewUserData(&testHostObject{name: "gizmo"})
	ip.globals.SetKey("w", ud)

	chain := &ast.Chain{Head: "w", Segments: []ast.Segment{fieldSeg("name")}}
	got, err := ip.readChain(chain)
	require.NoError(t, err)
	require.Equal(t, String("gizmo"), got)
}
