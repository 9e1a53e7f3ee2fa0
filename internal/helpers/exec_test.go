package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSCommandRunner(t *testing.T) {
	runner := NewOSCommandRunner()

	t.Run("LookPath is cached", func(t *testing.T) {
		first, err := runner.LookPath("sh")
		require.NoError(t, err)
		second, err := runner.LookPath("sh")
		require.NoError(t, err)
		assert.Equal(t, first, second)

		_, err = runner.LookPath("nonexistentcommand123")
		assert.Error(t, err)
		_, err = runner.LookPath("nonexistentcommand123")
		assert.Error(t, err)
	})

	t.Run("RunCommandWithEnv inherits environment when nil", func(t *testing.T) {
		stdout, stderr, err := runner.RunCommandWithEnv(context.Background(), nil, "echo", "hello")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "hello")
		assert.Empty(t, stderr)
	})

	t.Run("RunCommandWithEnv passes environment", func(t *testing.T) {
		env := []string{"PFSCRIPT_PROBE_VALUE=from-env"}
		stdout, _, err := runner.RunCommandWithEnv(context.Background(), env, "sh", "-c", "echo $PFSCRIPT_PROBE_VALUE")
		require.NoError(t, err)
		assert.Equal(t, "from-env\n", stdout)
	})

	t.Run("RunCommandWithEnv captures stderr on failure", func(t *testing.T) {
		stdout, stderr, err := runner.RunCommandWithEnv(context.Background(), nil, "sh", "-c", "echo out; echo boom >&2; exit 7")
		require.Error(t, err)
		assert.Equal(t, "out\n", stdout)
		assert.Equal(t, "boom\n", stderr)
		assert.Equal(t, 7, runner.GetExitCode(err))
	})

	t.Run("timeout exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, _, err := runner.RunCommandWithEnv(ctx, nil, "sleep", "5")
		assert.Error(t, err)
	})

	t.Run("GetExitCode", func(t *testing.T) {
		assert.Equal(t, 0, runner.GetExitCode(nil))
		assert.Equal(t, -1, runner.GetExitCode(errors.New("not an exit error")))

		_, _, err := runner.RunCommandWithEnv(context.Background(), nil, "false")
		assert.NotEqual(t, 0, runner.GetExitCode(err))
	})
}

func TestCommandRunnerInterface(_ *testing.T) {
	var _ CommandRunner = &OSCommandRunner{}
	var _ CommandRunner = &MockCommandRunner{}
}
