package core

import "time"

// ScriptKind identifies the template a script was generated from
type ScriptKind string

const (
	ScriptKindLoadFlow ScriptKind = "loadflow"
	ScriptKindExport   ScriptKind = "export"
	ScriptKindCustom   ScriptKind = "custom"
	ScriptKindNetwork  ScriptKind = "network"
	ScriptKindProbe    ScriptKind = "probe"
)

// Method selects how a script is executed
type Method string

const (
	MethodDirect     Method = "direct"
	MethodSubprocess Method = "subprocess"
	MethodBridge     Method = "bridge"
)

// ParseMethod converts a user supplied method name into a Method.
// "powerfactory" is accepted as an alias of bridge.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "direct", "":
		return MethodDirect, nil
	case "subprocess":
		return MethodSubprocess, nil
	case "bridge", "powerfactory":
		return MethodBridge, nil
	default:
		return "", &UnknownMethodError{Name: name}
	}
}

// Installation is the resolved PowerFactory installation for a run
type Installation struct {
	PythonDir   string   `json:"python_dir"`   // Folder holding the bridge module
	BaseDir     string   `json:"base_dir"`     // Two levels above PythonDir
	LibraryDirs []string `json:"library_dirs"` // Native library folders (BaseDir, BaseDir/bin)
}

// GeneratedScript represents a script rendered to disk
type GeneratedScript struct {
	ID         string     `json:"id"`
	Kind       ScriptKind `json:"kind"`
	Name       string     `json:"name,omitempty"`
	Path       string     `json:"path"`
	CreatedAt  time.Time  `json:"created_at"`
	StudyCase  string     `json:"study_case,omitempty"`
	ExportPath string     `json:"export_path,omitempty"`
}

// ExecutionResult captures the outcome of a single execution attempt
type ExecutionResult struct {
	Method     Method        `json:"method"`
	ScriptPath string        `json:"script_path"`
	Success    bool          `json:"success"`
	ExitCode   int           `json:"exit_code"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// ConnectionInfo is what the connection probe reads from the running application
type ConnectionInfo struct {
	Version   string `json:"version"`
	User      string `json:"user"`
	Project   string `json:"project"`
	StudyCase string `json:"study_case"`
}

// ExecuteOptions tunes a single execution
type ExecuteOptions struct {
	Python string // Interpreter override for this call
	Quiet  bool   // Do not echo captured output
}

// ExitSuccess is the interpreter return code of a clean run
const ExitSuccess = 0

// Bootstrap exit codes reported by the interpreter wrapper
const (
	ExitBridgeImport   = 3
	ExitAppUnavailable = 4
)
