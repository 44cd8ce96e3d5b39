package machine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/rustcript/lang/ast"
)

func TestEvalCallBuiltinTime(t *testing.T) {
	ip := newTestInterp()
	v, err := ip.evalCall(&ast.CallExpr{Name: "time"})
	require.NoError(t, err)
	_, ok := v.(Time)
	require.True(t, ok)
}

func TestEvalCallUndefinedNameIsNameError(t *testing.T) {
	ip := newTestInterp()
	_, err := ip.evalCall(&ast.CallExpr{Name: "nope"})
	require.Error(t, err)
	require.Equal(t, KindName, AsEvalError(err).Kind)
}

func TestEvalCallWrongArityIsArityError(t *testing.T) {
	ip := newTestInterp()
	ip.Program.Functions["greet"] = &ast.FunctionInfo{Name: "greet", Params: []string{"a", "b"}, BodyStart: 0, BodyEnd: 0}
	_, err := ip.evalCall(&ast.CallExpr{Name: "greet", Args: []ast.Expr{intLit(1)}})
	require.Error(t, err)
	require.Equal(t, KindArity, AsEvalError(err).Kind)
}

func TestResolveFunctionPrefersNamespaceQualifiedOverGlobal(t *testing.T) {
	ip := newTestInterp()
	ip.Program.Modules["ns"] = &ast.ModuleInfo{Name: "ns", BodyStart: 5, BodyEnd: 10}
	ip.Program.Functions["ns.greet"] = &ast.FunctionInfo{Name: "greet", Namespace: "ns"}
	ip.Program.Functions["greet"] = &ast.FunctionInfo{Name: "greet"}
	ip.pc = 7

	fn, ok := ip.resolveFunction("greet")
	require.True(t, ok)
	require.Equal(t, "ns", fn.Namespace)
}

func TestResolveFunctionFallsBackToGlobalOutsideNamespace(t *testing.T) {
	ip := newTestInterp()
	ip.Program.Modules["ns"] = &ast.ModuleInfo{Name: "ns", BodyStart: 5, BodyEnd: 10}
	ip.Program.Functions["ns.greet"] = &ast.FunctionInfo{Name: "greet", Namespace: "ns"}
	ip.Program.Functions["greet"] = &ast.FunctionInfo{Name: "greet"}
	ip.pc = 100 // outside the module's span

	fn, ok := ip.resolveFunction("greet")
	require.True(t, ok)
	require.Equal(t, "", fn.Namespace)
}

func TestEvalModuleCallRoutesToStdlibModule(t *testing.T) {
	ip := newTestInterp()
	v, err := ip.evalModuleCall(&ast.ModuleCallExpr{Module: "math", Func: "abs", Args: []ast.Expr{intLit(-4)}})
	require.NoError(t, err)
	require.Equal(t, Int(4), v)
}

func TestEvalMethodCallDispatchesUserDataToHostObject(t *testing.T) {
	ip := newTestInterp()
	host := &testHostObject{name: "gizmo"}
	ip.globals.SetKey("h", NewUserData(host))

	v, err := ip.evalMethodCall(&ast.MethodCallExpr{
		Recv:   &ast.IdentExpr{Chain: &ast.Chain{Head: "h"}},
		Method: "greet",
	})
	require.NoError(t, err)
	require.Equal(t, String("hello gizmo"), v)
	require.Equal(t, []string{"greet"}, host.calls)
}

func TestEvalStringLitPassesThroughPlainText(t *testing.T) {
	ip := newTestInterp()
	v, err := ip.evalStringLit("no interpolation here")
	require.NoError(t, err)
	require.Equal(t, String("no interpolation here"), v)
}

func TestEvalStringLitInterpolatesExpression(t *testing.T) {
	ip := newTestInterp()
	ip.globals.SetKey("x", Int(3))
	v, err := ip.evalStringLit("x = {x + 1}!")
	require.NoError(t, err)
	require.Equal(t, String("x = 4!"), v)
}

func TestEvalStringLitUnterminatedBraceIsKeptLiteral(t *testing.T) {
	ip := newTestInterp()
	v, err := ip.evalStringLit("oops {unterminated")
	require.NoError(t, err)
	require.Equal(t, String("oops {unterminated"), v)
}
