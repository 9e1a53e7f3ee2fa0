// Package executor runs generated scripts in a separate interpreter and
// classifies the outcome.
package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/environ"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultBridgeModule is the importable name of the vendor bridge
const DefaultBridgeModule = "powerfactory"

// Options configures an Executor. Zero values pick defaults.
type Options struct {
	Python       string
	BridgeModule string
	Out          io.Writer
	ErrOut       io.Writer

	// Progress is called before the interpreter starts; the returned func
	// is called once it exits, before any output is echoed
	Progress func(label string) func()
}

// Executor runs scripts. It holds no per-run state; the installation and
// preparer are shared for the whole process.
type Executor struct {
	runner       helpers.CommandRunner
	fs           afero.Fs
	preparer     *environ.Preparer
	installation *core.Installation
	python       string
	bridgeModule string
	out          io.Writer
	errOut       io.Writer
	progress     func(label string) func()
	environ      func() []string
	sleep        func(ctx context.Context, d time.Duration) error
	log          *zerolog.Logger
}

// New creates an executor. installation may be nil when discovery failed;
// the bridge method then refuses to run.
func New(runner helpers.CommandRunner, fs afero.Fs, preparer *environ.Preparer, installation *core.Installation, opts Options, log *zerolog.Logger) *Executor {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	if opts.Python == "" {
		opts.Python = DefaultPython()
	}
	if opts.BridgeModule == "" {
		opts.BridgeModule = DefaultBridgeModule
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	return &Executor{
		runner:       runner,
		fs:           fs,
		preparer:     preparer,
		installation: installation,
		python:       opts.Python,
		bridgeModule: opts.BridgeModule,
		out:          opts.Out,
		errOut:       opts.ErrOut,
		progress:     opts.Progress,
		environ:      os.Environ,
		sleep:        sleepContext,
		log:          log,
	}
}

// DefaultPython is the interpreter used when none is configured
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Python returns the interpreter used when a call does not override it
func (e *Executor) Python() string {
	return e.python
}

// Execute runs scriptPath with method. It never returns a bare error: the
// classified failure is carried in the result's Err.
func (e *Executor) Execute(ctx context.Context, scriptPath string, method core.Method, opts core.ExecuteOptions) *core.ExecutionResult {
	result := &core.ExecutionResult{
		Method:     method,
		ScriptPath: scriptPath,
		ExitCode:   -1,
	}

	if !fsops.Exists(e.fs, scriptPath) {
		result.Err = fmt.Errorf("%w: %s", core.ErrScriptNotFound, scriptPath)
		return result
	}

	python := e.python
	if opts.Python != "" {
		python = opts.Python
	}

	var args []string
	switch method {
	case core.MethodDirect:
		if e.installation == nil {
			e.log.Warn().Str("script", scriptPath).Msg("no PowerFactory installation found, running without bridge paths")
		}
		args = []string{"-c", directBootstrap, scriptPath}
	case core.MethodSubprocess:
		args = []string{scriptPath}
	case core.MethodBridge:
		if e.installation == nil {
			result.Err = fmt.Errorf("bridge execution: %w", core.ErrInstallationNotFound)
			return result
		}
		args = []string{"-c", bridgeBootstrap, scriptPath, e.bridgeModule}
	default:
		result.Err = &core.UnknownMethodError{Name: string(method)}
		return result
	}

	env := e.environ()
	if e.preparer != nil {
		env = e.preparer.ChildEnv(env)
	}

	e.log.Debug().
		Str("script", scriptPath).
		Str("method", string(method)).
		Str("python", python).
		Msg("executing script")

	stop := func() {}
	if e.progress != nil && !opts.Quiet {
		stop = e.progress("Running " + filepath.Base(scriptPath))
	}

	start := time.Now()
	stdout, stderr, err := e.runner.RunCommandWithEnv(ctx, env, python, args...)
	result.Duration = time.Since(start)
	stop()
	result.Stdout = stdout
	result.Stderr = stderr

	if !opts.Quiet {
		e.echo(stdout, stderr)
	}

	if err == nil {
		result.Success = true
		result.ExitCode = core.ExitSuccess
		e.log.Debug().Str("script", scriptPath).Dur("duration", result.Duration).Msg("script succeeded")
		return result
	}

	result.ExitCode = e.runner.GetExitCode(err)
	result.Err = e.classify(ctx, method, python, result.ExitCode, err)

	e.log.Debug().
		Err(result.Err).
		Str("script", scriptPath).
		Int("exit_code", result.ExitCode).
		Msg("script failed")

	return result
}

// ExecuteAndWait runs the script, prints the elapsed time and then pauses
// for wait so a host application can settle between runs
func (e *Executor) ExecuteAndWait(ctx context.Context, scriptPath string, method core.Method, wait time.Duration, opts core.ExecuteOptions) *core.ExecutionResult {
	start := time.Now()
	result := e.Execute(ctx, scriptPath, method, opts)
	elapsed := time.Since(start)

	fmt.Fprintf(e.out, "Execution time: %.2f seconds\n", elapsed.Seconds())

	if wait > 0 {
		fmt.Fprintf(e.out, "Waiting %.0f seconds...\n", wait.Seconds())
		if err := e.sleep(ctx, wait); err != nil {
			e.log.Debug().Err(err).Msg("wait interrupted")
		}
	}
	return result
}

func (e *Executor) classify(ctx context.Context, method core.Method, python string, code int, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("execution interrupted: %w", ctxErr)
	}
	if code < 0 {
		return fmt.Errorf("start interpreter %s: %w", python, err)
	}
	if method == core.MethodBridge {
		switch code {
		case core.ExitBridgeImport:
			return fmt.Errorf("%w %q (return code %d)", core.ErrBridgeImport, e.bridgeModule, code)
		case core.ExitAppUnavailable:
			return fmt.Errorf("%w (return code %d)", core.ErrAppUnavailable, code)
		}
	}
	return &core.ExecError{Code: code, Err: err}
}

func (e *Executor) echo(stdout, stderr string) {
	if stdout != "" {
		fmt.Fprint(e.out, stdout)
	}
	if stderr != "" {
		fmt.Fprintln(e.errOut, "STDERR:")
		fmt.Fprint(e.errOut, stderr)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
