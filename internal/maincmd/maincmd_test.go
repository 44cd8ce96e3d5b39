package maincmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (exitCode mainer.ExitCode, stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	c := Cmd{BuildVersion: "0.0.0-test", BuildDate: "2026-01-01"}
	code := c.Main(append([]string{"rustcript"}, args...), mainer.Stdio{Stdout: &outBuf, Stderr: &errBuf})
	return code, outBuf.String(), errBuf.String()
}

func TestHelpFlagPrintsUsageAndSucceeds(t *testing.T) {
	code, out, _ := runCmd(t, "--help")
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "usage:")
}

func TestVersionFlagPrintsBuildInfo(t *testing.T) {
	code, out, _ := runCmd(t, "--version")
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "0.0.0-test")
}

func TestMissingScriptPathIsInvalidArgs(t *testing.T) {
	code, _, stderr := runCmd(t)
	require.Equal(t, mainer.InvalidArgs, code)
	require.Contains(t, stderr, "invalid arguments")
}

func TestRunScriptPrintsToStdout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rc")
	require.NoError(t, os.WriteFile(path, []byte("print 'hi from cli'\n"), 0o644))

	code, out, _ := runCmd(t, path)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "hi from cli")
}

func TestRunScriptFailureIsReportedOnStderr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rc")
	require.NoError(t, os.WriteFile(path, []byte("v = {1, 2}\nx = v.9\n"), 0o644))

	code, _, stderr := runCmd(t, path)
	require.Equal(t, mainer.Failure, code)
	require.NotEmpty(t, stderr)
}

func TestAllowReadFlagGatesIoRead(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(dataPath, []byte("payload"), 0o644))

	scriptPath := filepath.Join(dir, "main.rc")
	require.NoError(t, os.WriteFile(scriptPath, []byte("x = io.read('data.txt')\nprint x\n"), 0o644))

	code, _, stderr := runCmd(t, "--sandbox", dir, scriptPath)
	require.Equal(t, mainer.Failure, code)
	require.NotEmpty(t, stderr)

	code, out, _ := runCmd(t, "--sandbox", dir, "--allow-read", scriptPath)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "payload")
}

func TestDumpProgramPrintsDisassemblyInsteadOfRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rc")
	require.NoError(t, os.WriteFile(path, []byte("print 'hello'\n"), 0o644))

	code, out, _ := runCmd(t, "--dump-program", path)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "print")
	require.NotContains(t, out, "hello")
}
