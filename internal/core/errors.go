package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInstallationNotFound means no candidate installation folder exists
	ErrInstallationNotFound = errors.New("powerfactory installation not found")

	// ErrScriptNotFound means the script to execute does not exist
	ErrScriptNotFound = errors.New("script not found")

	// ErrBridgeImport means the bridge module could not be imported
	ErrBridgeImport = errors.New("cannot import powerfactory module")

	// ErrAppUnavailable means the bridge returned no running application
	ErrAppUnavailable = errors.New("cannot connect to PowerFactory, make sure it is running")

	// ErrExecution means the script raised or the interpreter exited nonzero
	ErrExecution = errors.New("script execution failed")
)

// ExecError carries the exit code of a failed execution
type ExecError struct {
	Code int
	Err  error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("script failed with return code %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("script failed with return code %d", e.Code)
}

// Unwrap lets errors.Is match ErrExecution
func (e *ExecError) Unwrap() error {
	return ErrExecution
}

// UnknownMethodError is returned by ParseMethod
type UnknownMethodError struct {
	Name string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method: %q (want direct, subprocess or bridge)", e.Name)
}
