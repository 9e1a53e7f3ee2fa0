// Package diagnose inspects a PowerFactory installation tree to find where
// its native libraries live.
package diagnose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/paths"
	"github.com/spf13/afero"
)

// EntryKind classifies a directory entry
type EntryKind string

const (
	KindFile       EntryKind = "file"
	KindDir        EntryKind = "dir"
	KindBinDir     EntryKind = "bin"
	KindLibrary    EntryKind = "library"
	KindExecutable EntryKind = "executable"
)

// Listing limits used when printing a report
const (
	StartListLimit   = 20
	LevelListLimit   = 30
	LibraryListLimit = 5
)

// Options controls an inspection
type Options struct {
	Depth         int    // Ancestor levels to list
	LibraryExt    string // e.g. ".dll"
	ExecutableExt string // e.g. ".exe"
}

// DefaultOptions matches a Windows installation
func DefaultOptions() Options {
	return Options{Depth: 5, LibraryExt: ".dll", ExecutableExt: ".exe"}
}

// Entry is one classified directory entry
type Entry struct {
	Name string
	Kind EntryKind
}

// Listing is the classified content of one directory
type Listing struct {
	Dir     string
	Level   int // 0 for the inspected folder, n for n levels up
	Entries []Entry
	Err     error
}

// LibraryLocation is a folder holding native library files
type LibraryLocation struct {
	Dir   string
	Files []string
}

// Report is the outcome of Inspect
type Report struct {
	Path      string
	Exists    bool
	Start     Listing
	Levels    []Listing
	Checked   []string // Ancestors searched for libraries
	Libraries []LibraryLocation
}

// Inspect lists pythonDir and its ancestors, then searches the base
// directories two and three levels up (and their bin folders) for native
// libraries. Unreadable folders are recorded on the listing, never returned.
func Inspect(fs afero.Fs, pythonDir string, opts Options) *Report {
	if opts.Depth <= 0 {
		opts.Depth = DefaultOptions().Depth
	}

	report := &Report{Path: pythonDir}
	if !fsops.Exists(fs, pythonDir) {
		return report
	}
	report.Exists = true
	report.Start = list(fs, pythonDir, 0, opts)

	current := filepath.Clean(pythonDir)
	for level := 1; level <= opts.Depth; level++ {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		report.Levels = append(report.Levels, list(fs, parent, level, opts))
		current = parent
	}

	for _, up := range []int{2, 3} {
		base := paths.Ancestor(pythonDir, up)
		if !fsops.IsDir(fs, base) || contains(report.Checked, base) {
			continue
		}
		report.Checked = append(report.Checked, base)

		for _, dir := range []string{base, filepath.Join(base, "bin")} {
			// an ancestor named bin is reached both directly and as <parent>/bin
			if !fsops.IsDir(fs, dir) || contains(report.LibraryDirs(), dir) {
				continue
			}
			if loc, ok := libraries(fs, dir, opts.LibraryExt); ok {
				report.Libraries = append(report.Libraries, loc)
			}
		}
	}

	return report
}

// LibraryDirs returns the folders of every library location
func (r *Report) LibraryDirs() []string {
	dirs := make([]string, 0, len(r.Libraries))
	for _, loc := range r.Libraries {
		dirs = append(dirs, loc.Dir)
	}
	return dirs
}

// Recommendations renders the Python lines that put the library folders on PATH
func (r *Report) Recommendations() []string {
	lines := make([]string, 0, len(r.Libraries))
	for _, loc := range r.Libraries {
		lines = append(lines, fmt.Sprintf(`os.environ["PATH"] = r"%s" + os.pathsep + os.environ["PATH"]`, loc.Dir))
	}
	return lines
}

// Classify decides the kind of a single entry
func Classify(info os.FileInfo, opts Options) EntryKind {
	name := strings.ToLower(info.Name())
	if info.IsDir() {
		if name == "bin" {
			return KindBinDir
		}
		return KindDir
	}
	switch {
	case opts.LibraryExt != "" && strings.HasSuffix(name, strings.ToLower(opts.LibraryExt)):
		return KindLibrary
	case opts.ExecutableExt != "" && strings.HasSuffix(name, strings.ToLower(opts.ExecutableExt)):
		return KindExecutable
	default:
		return KindFile
	}
}

func list(fs afero.Fs, dir string, level int, opts Options) Listing {
	l := Listing{Dir: dir, Level: level}
	infos, err := fsops.ListDir(fs, dir)
	if err != nil {
		l.Err = err
		return l
	}
	for _, info := range infos {
		l.Entries = append(l.Entries, Entry{Name: info.Name(), Kind: Classify(info, opts)})
	}
	return l
}

func libraries(fs afero.Fs, dir, ext string) (LibraryLocation, bool) {
	infos, err := fsops.ListDir(fs, dir)
	if err != nil {
		return LibraryLocation{}, false
	}
	loc := LibraryLocation{Dir: dir}
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), strings.ToLower(ext)) {
			loc.Files = append(loc.Files, info.Name())
		}
	}
	return loc, len(loc.Files) > 0
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
