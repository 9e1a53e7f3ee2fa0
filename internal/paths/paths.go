package paths

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// release describes one PowerFactory release and the interpreters it bundles
type release struct {
	name    string
	pythons []string
}

var releases = []release{
	{"2021", []string{"3.8", "3.9", "3.10"}},
	{"2021 SP1", []string{"3.8", "3.9", "3.10"}},
	{"2021 SP2", []string{"3.8", "3.9", "3.10"}},
	{"2021 SP3", []string{"3.8", "3.9", "3.10"}},
	{"2021 SP4", []string{"3.8", "3.9", "3.10"}},
	{"2022", []string{"3.8", "3.9", "3.10", "3.11"}},
	{"2022 SP1", []string{"3.8", "3.9", "3.10", "3.11"}},
	{"2022 SP2", []string{"3.8", "3.9", "3.10", "3.11"}},
}

// Non-standard installation layouts seen in the field
var customCandidates = []string{
	`D:\Digsilent Powerfactory 2021\Digsilent\Python\3.8`,
	`D:\Digsilent Powerfactory 2021\Digsilent\Python\3.9`,
	`D:\Digsilent Powerfactory 2021\Digsilent\Python\3.10`,
}

// DefaultCandidates returns the built-in candidate list, ordered by release
// and then by interpreter version
func DefaultCandidates() []string {
	var out []string
	for _, rel := range releases {
		for _, py := range rel.pythons {
			out = append(out, fmt.Sprintf(`C:\Program Files\DIgSILENT\PowerFactory %s\Python\%s`, rel.name, py))
		}
	}
	return append(out, customCandidates...)
}

// Resolver locates the PowerFactory installation from an ordered candidate
// list. The first resolution is kept for the lifetime of the Resolver.
type Resolver struct {
	fs         afero.Fs
	candidates []string
	log        *zerolog.Logger

	once sync.Once
	inst *core.Installation
	err  error
}

// NewResolver creates a Resolver. An empty candidate list selects
// DefaultCandidates.
func NewResolver(fs afero.Fs, candidates []string, log *zerolog.Logger) *Resolver {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Resolver{
		fs:         fs,
		candidates: append([]string(nil), candidates...),
		log:        log,
	}
}

// Candidates returns a copy of the candidate list
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Existing returns every candidate that exists, in candidate order
func (r *Resolver) Existing() []string {
	var found []string
	for _, c := range r.candidates {
		if fsops.IsDir(r.fs, c) {
			found = append(found, c)
		}
	}
	return found
}

// Resolve returns the installation rooted at the first existing candidate.
// It returns core.ErrInstallationNotFound when none exists.
func (r *Resolver) Resolve() (*core.Installation, error) {
	r.once.Do(func() {
		r.inst, r.err = r.resolve()
	})
	return r.inst, r.err
}

func (r *Resolver) resolve() (*core.Installation, error) {
	for _, c := range r.candidates {
		if !fsops.IsDir(r.fs, c) {
			continue
		}

		base := BaseDir(c)
		inst := &core.Installation{
			PythonDir:   c,
			BaseDir:     base,
			LibraryDirs: r.LibraryDirs(c),
		}

		r.log.Info().
			Str("python_dir", inst.PythonDir).
			Str("base_dir", inst.BaseDir).
			Strs("library_dirs", inst.LibraryDirs).
			Msg("powerfactory installation found")
		return inst, nil
	}

	r.log.Warn().Int("candidates", len(r.candidates)).Msg("no powerfactory installation found")
	return nil, fmt.Errorf("checked %d candidates: %w", len(r.candidates), core.ErrInstallationNotFound)
}

// LibraryDirs returns the native library folders for a bridge folder: the
// base directory, and its bin folder when present
func (r *Resolver) LibraryDirs(pythonDir string) []string {
	base := BaseDir(pythonDir)
	dirs := []string{base}

	bin := filepath.Join(base, "bin")
	if fsops.IsDir(r.fs, bin) {
		dirs = append(dirs, bin)
	}
	return dirs
}

// BaseDir returns the installation root, two levels above the bridge folder
// (...\PowerFactory 2022\Python\3.10 -> ...\PowerFactory 2022)
func BaseDir(pythonDir string) string {
	return Ancestor(pythonDir, 2)
}

// Ancestor walks n levels up from path, stopping at the filesystem root
func Ancestor(path string, n int) string {
	current := filepath.Clean(path)
	for i := 0; i < n; i++ {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return current
}
