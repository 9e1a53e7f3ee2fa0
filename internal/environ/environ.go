// Package environ prepares the search paths the bridge module needs: the
// interpreter module search list (PYTHONPATH) and the dynamic-library search
// variable (PATH). Insertions are deduplicated and never removed.
package environ

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/rs/zerolog"
)

const (
	ModuleVar  = "PYTHONPATH"
	LibraryVar = "PATH"
)

// Prepend returns list with dirs inserted at the front in the given order.
// Empty dirs and dirs already present are skipped.
func Prepend(list string, sep string, foldCase bool, dirs ...string) string {
	existing := split(list, sep)

	var front []string
	for _, d := range dirs {
		if d == "" || containsPath(existing, d, foldCase) || containsPath(front, d, foldCase) {
			continue
		}
		front = append(front, d)
	}
	if len(front) == 0 {
		return list
	}
	return strings.Join(append(front, existing...), sep)
}

// Preparer owns the module search list handed to child interpreters and
// mutates the process library search variable
type Preparer struct {
	Getenv   func(string) string
	Setenv   func(string, string) error
	Sep      string
	FoldCase bool

	mu      sync.Mutex
	modules []string
	libs    []string
	log     *zerolog.Logger
}

// NewPreparer creates a Preparer bound to the process environment
func NewPreparer(log *zerolog.Logger) *Preparer {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Preparer{
		Getenv:   os.Getenv,
		Setenv:   os.Setenv,
		Sep:      string(os.PathListSeparator),
		FoldCase: runtime.GOOS == "windows",
		log:      log,
	}
}

// AddModuleDirs puts dirs at the front of the module search list and returns
// the dirs that were not already there
func (p *Preparer) AddModuleDirs(dirs ...string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := p.fresh(p.modules, dirs)
	p.modules = append(append([]string(nil), added...), p.modules...)
	for _, d := range added {
		p.log.Debug().Str("dir", d).Msg("added to module search list")
	}
	return added
}

// AddLibraryDirs puts dirs at the front of the process PATH and returns the
// dirs that were not already there
func (p *Preparer) AddLibraryDirs(dirs ...string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.Getenv(LibraryVar)
	existing := split(current, p.Sep)

	var added []string
	for _, d := range dirs {
		if d == "" || containsPath(existing, d, p.FoldCase) || containsPath(added, d, p.FoldCase) {
			continue
		}
		added = append(added, d)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := p.Setenv(LibraryVar, Prepend(current, p.Sep, p.FoldCase, added...)); err != nil {
		return nil, err
	}
	p.libs = append(append([]string(nil), added...), p.libs...)
	for _, d := range added {
		p.log.Debug().Str("dir", d).Msg("added to library search path")
	}
	return added, nil
}

// Prepare adds the installation's bridge folder to the module list and its
// library folders to PATH
func (p *Preparer) Prepare(inst *core.Installation) error {
	if inst == nil {
		return nil
	}
	p.AddModuleDirs(inst.PythonDir)
	_, err := p.AddLibraryDirs(inst.LibraryDirs...)
	return err
}

// ModuleDirs returns the module search list, front first
func (p *Preparer) ModuleDirs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.modules...)
}

// ChildEnv returns a copy of base (KEY=VALUE entries) with PYTHONPATH and
// PATH prefixed by the prepared folders. base is not modified.
func (p *Preparer) ChildEnv(base []string) []string {
	p.mu.Lock()
	modules := append([]string(nil), p.modules...)
	libs := append([]string(nil), p.libs...)
	p.mu.Unlock()

	env := append([]string(nil), base...)
	env = setVar(env, ModuleVar, func(v string) string { return Prepend(v, p.Sep, p.FoldCase, modules...) }, p.FoldCase)
	env = setVar(env, LibraryVar, func(v string) string { return Prepend(v, p.Sep, p.FoldCase, libs...) }, p.FoldCase)
	return env
}

func (p *Preparer) fresh(existing, dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if d == "" || containsPath(existing, d, p.FoldCase) || containsPath(out, d, p.FoldCase) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// setVar rewrites the last KEY=VALUE entry for key (Windows variable names
// are case-insensitive), appending one when absent
func setVar(env []string, key string, update func(string) string, foldCase bool) []string {
	idx := -1
	value := ""
	for i, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if k == key || (foldCase && strings.EqualFold(k, key)) {
			idx, value = i, v
		}
	}

	updated := update(value)
	if idx < 0 {
		if updated == "" {
			return env
		}
		return append(env, key+"="+updated)
	}
	k, _, _ := strings.Cut(env[idx], "=")
	env[idx] = k + "=" + updated
	return env
}

func split(list, sep string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, sep)
}

func containsPath(list []string, dir string, foldCase bool) bool {
	want := normalize(dir)
	for _, item := range list {
		got := normalize(item)
		if got == want || (foldCase && strings.EqualFold(got, want)) {
			return true
		}
	}
	return false
}

func normalize(dir string) string {
	if dir == "" {
		return dir
	}
	return filepath.Clean(dir)
}
