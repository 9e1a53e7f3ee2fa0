package helpers

import (
	"context"
	"fmt"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	LookPathFunc          func(name string) (string, error)
	RunCommandWithEnvFunc func(ctx context.Context, env []string, name string, args ...string) (stdout, stderr string, err error)
	GetExitCodeFunc       func(err error) int
}

// LookPath implements CommandRunner.LookPath
func (m *MockCommandRunner) LookPath(name string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(name)
	}
	return "", fmt.Errorf("command %q not found in PATH", name)
}

// RunCommandWithEnv implements CommandRunner.RunCommandWithEnv
func (m *MockCommandRunner) RunCommandWithEnv(ctx context.Context, env []string, name string, args ...string) (stdout, stderr string, err error) {
	if m.RunCommandWithEnvFunc != nil {
		return m.RunCommandWithEnvFunc(ctx, env, name, args...)
	}
	return "", "", nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	if err != nil {
		return 1
	}
	return 0
}
