package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.py")
	require.NoError(t, os.WriteFile(path, []byte(body+"\n"), 0644))
	return path
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func TestRun_Subprocess(t *testing.T) {
	skipWithoutShell(t)
	script := writeTestScript(t, "echo hello from script")

	out, err := execute(t, testConfig(t), "run", script, "--method", "subprocess", "--python", "sh")
	require.NoError(t, err)
	assert.Contains(t, out, "hello from script")
	assert.Regexp(t, `Execution time: \d+\.\d{2} seconds`, out)
}

func TestRun_SubprocessFailure(t *testing.T) {
	skipWithoutShell(t)
	script := writeTestScript(t, "echo boom >&2; exit 2")

	out, err := execute(t, testConfig(t), "run", script, "-m", "subprocess", "--python", "sh")
	require.Error(t, err)

	var execErr *core.ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.Code)
	assert.Contains(t, out, "STDERR:")
	assert.Contains(t, out, "boom")
}

func TestRun_DirectUsesConfiguredMethod(t *testing.T) {
	cfg := testConfig(t)
	cfg.Executor.Python = fakePython(t, `echo "direct $1"`)
	script := writeTestScript(t, "print('x')")

	out, err := execute(t, cfg, "run", script)
	require.NoError(t, err)
	assert.Contains(t, out, "direct -c")
}

func TestRun_BridgeNeedsInstallation(t *testing.T) {
	script := writeTestScript(t, "pass")

	_, err := execute(t, testConfig(t), "run", script, "--method", "bridge")
	assert.ErrorIs(t, err, core.ErrInstallationNotFound)
}

func TestRun_BridgeExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"import failure", "3", core.ErrBridgeImport},
		{"application unavailable", "4", core.ErrAppUnavailable},
		{"script error", "1", core.ErrExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			withInstallation(t, cfg)
			cfg.Executor.Python = fakePython(t, "exit "+tt.code)
			script := writeTestScript(t, "pass")

			_, err := execute(t, cfg, "run", script, "--method", "powerfactory")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_MissingScript(t *testing.T) {
	_, err := execute(t, testConfig(t), "run", filepath.Join(t.TempDir(), "nope.py"))
	assert.ErrorIs(t, err, core.ErrScriptNotFound)
}

func TestRun_UnknownMethod(t *testing.T) {
	script := writeTestScript(t, "pass")

	_, err := execute(t, testConfig(t), "run", script, "--method", "teleport")
	var methodErr *core.UnknownMethodError
	assert.True(t, errors.As(err, &methodErr))
}

func TestRun_RequiresScript(t *testing.T) {
	_, err := execute(t, testConfig(t), "run")
	assert.Error(t, err)
}
