package machine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathRejectsEscapeOutsideSandboxRoot(t *testing.T) {
	root := t.TempDir()
	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	_, err := ip.resolvePath("../../etc/passwd")
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)
}

func TestResolvePathAllowsPathUnderSandboxRoot(t *testing.T) {
	root := t.TempDir()
	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	resolved, err := ip.resolvePath("data/file.txt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "data", "file.txt"), resolved)
}

func TestResolvePathRejectsAbsolutePath(t *testing.T) {
	root := t.TempDir()
	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	_, err := ip.resolvePath("/etc/passwd")
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)
}

func TestResolvePathRejectsSymlinkEscapingSandboxRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "link.txt")))

	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	_, err := ip.resolvePath("link.txt")
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)
}

func TestResolvePathWithNoSandboxConfiguredIsRejected(t *testing.T) {
	ip := newTestInterp()
	_, err := ip.resolvePath("anything")
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)
}

func TestResolvePathUnsafeModeBypassesContainment(t *testing.T) {
	ip := newTestInterp()
	ip.SetUnsafeNoSandbox(true)

	resolved, err := ip.resolvePath("../elsewhere")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(resolved))
}

func TestIoFuncReadRequiresReadPermission(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("hi"), 0o644))

	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	_, err := ip.ioFunc("read", []Value{String("f.txt")})
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)

	ip.SetPermissions(Permissions{Read: true})
	v, err := ip.ioFunc("read", []Value{String("f.txt")})
	require.NoError(t, err)
	require.Equal(t, String("hi"), v)
}

func TestIoFuncWriteAndAppendRequireWritePermission(t *testing.T) {
	root := t.TempDir()
	ip := newTestInterp()
	ip.SetSandboxRoot(root)
	ip.SetPermissions(Permissions{Write: true, Read: true})

	_, err := ip.ioFunc("write", []Value{String("f.txt"), String("one")})
	require.NoError(t, err)

	_, err = ip.ioFunc("append", []Value{String("f.txt"), String("two")})
	require.NoError(t, err)

	v, err := ip.ioFunc("read", []Value{String("f.txt")})
	require.NoError(t, err)
	require.Equal(t, String("onetwo"), v)
}

func TestIoFuncDeleteRequiresDeletePermission(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	_, err := ip.ioFunc("delete", []Value{String("f.txt")})
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)

	ip.SetPermissions(Permissions{Delete: true})
	_, err = ip.ioFunc("delete", []Value{String("f.txt")})
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestIoFuncExistsNeedsNoPermissionBit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0o644))

	ip := newTestInterp()
	ip.SetSandboxRoot(root)

	v, err := ip.ioFunc("exists", []Value{String("f.txt")})
	require.NoError(t, err)
	require.Equal(t, Bool(true), v)

	v, err = ip.ioFunc("exists", []Value{String("missing.txt")})
	require.NoError(t, err)
	require.Equal(t, Bool(false), v)
}

func TestOsExecDisabledByDefaultIsSecurityError(t *testing.T) {
	ip := newTestInterp()
	_, err := ip.osFunc("exec", []Value{String("true")})
	require.Error(t, err)
	require.Equal(t, KindSecurity, AsEvalError(err).Kind)
}

func TestOsExecReturnsExitCode(t *testing.T) {
	ip := newTestInterp()
	ip.SetExecEnabled(true)

	v, err := ip.osFunc("exec", []Value{String("true")})
	require.NoError(t, err)
	require.Equal(t, Int(0), v)

	v, err = ip.osFunc("exec", []Value{String("false")})
	require.NoError(t, err)
	require.Equal(t, Int(1), v)
}

func TestOsGetenv(t *testing.T) {
	require.NoError(t, os.Setenv("RUSTCRIPT_TEST_VAR", "hello"))
	defer os.Unsetenv("RUSTCRIPT_TEST_VAR")

	ip := newTestInterp()
	v, err := ip.osFunc("getenv", []Value{String("RUSTCRIPT_TEST_VAR")})
	require.NoError(t, err)
	require.Equal(t, String("hello"), v)

	v, err = ip.osFunc("getenv", []Value{String("RUSTCRIPT_DOES_NOT_EXIST")})
	require.NoError(t, err)
	require.Equal(t, Null, v)
}
