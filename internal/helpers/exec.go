package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// CommandRunner defines an interface for executing system commands
// This allows for mocking in tests and dependency injection
type CommandRunner interface {
	// LookPath resolves a command to its full path
	LookPath(name string) (string, error)

	// RunCommandWithEnv runs a command with an explicit environment and
	// returns both streams once the process has exited
	RunCommandWithEnv(ctx context.Context, env []string, name string, args ...string) (stdout, stderr string, err error)

	// GetExitCode extracts the exit code from a command error
	GetExitCode(err error) int
}

// OSCommandRunner is the default implementation using os/exec
type OSCommandRunner struct {
	commandCache sync.Map // map[string]string, "" for missing
}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// LookPath resolves a command to its full path, caching the answer
func (r *OSCommandRunner) LookPath(name string) (string, error) {
	if cached, ok := r.commandCache.Load(name); ok {
		if path, ok := cached.(string); ok {
			if path == "" {
				return "", fmt.Errorf("command %q not found in PATH", name)
			}
			return path, nil
		}
		r.commandCache.Delete(name)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		r.commandCache.Store(name, "")
		return "", fmt.Errorf("command %q not found in PATH: %w", name, err)
	}
	r.commandCache.Store(name, path)
	return path, nil
}

// RunCommandWithEnv runs a command with env (nil inherits the current
// process environment)
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommandWithEnv(ctx context.Context, env []string, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		err = fmt.Errorf("command %q failed: %w", name, err)
	}

	return stdout, stderr, err
}

// GetExitCode extracts the exit code from a command error.
// It returns -1 when the process never ran or was killed by a signal.
func (r *OSCommandRunner) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
