package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func runForOutput(t *testing.T, args []string) (string, string, int) {
	t.Helper()

	stdoutR, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	stderrR, stderrW, err := os.Pipe()
	require.NoError(t, err)

	code := run(args, stdoutW, stderrW)
	require.NoError(t, stdoutW.Close())
	require.NoError(t, stderrW.Close())

	var outBuf, errBuf bytes.Buffer
	_, err = outBuf.ReadFrom(stdoutR)
	require.NoError(t, err)
	_, err = errBuf.ReadFrom(stderrR)
	require.NoError(t, err)

	return outBuf.String(), errBuf.String(), code
}

func TestRunHelloScenario(t *testing.T) {
	out, _, code := runForOutput(t, []string{"--scenario=hello"})
	require.Equal(t, 0, code)
	require.Contains(t, out, "Hello, world! No leaks!")
	require.Contains(t, out, "live_objects: 1")
}

func TestRunUnreachableScenario(t *testing.T) {
	out, _, code := runForOutput(t, []string{"--scenario=unreachable"})
	require.Equal(t, 0, code)
	require.Contains(t, out, "unreachable block collected: true")
}

func TestRunUnknownScenario(t *testing.T) {
	_, errOut, code := runForOutput(t, []string{"--scenario=bogus"})
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "unknown scenario")
}

func TestRunInvalidConfigPath(t *testing.T) {
	_, errOut, code := runForOutput(t, []string{"--config=/nonexistent/path.json"})
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "cannot read config file")
}
