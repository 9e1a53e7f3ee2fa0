package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/diagnose"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const defaultDiagnosePath = `D:\Digsilent Powerfactory 2021\Digsilent\Python\3.8`

// NewDiagnoseCmd creates the diagnose command
func NewDiagnoseCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [python-dir]",
		Short: "Inspect an installation to find its native libraries",
		Long: `Inspect the folder holding the PowerFactory Python bridge, list the
folders above it and report where the native libraries live, with the PATH
lines needed to load them.

When no folder is given and the terminal is interactive, you are asked for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPath := cfg.Discovery.DefaultPython
			if defaultPath == "" {
				defaultPath = defaultDiagnosePath
			}

			pythonDir := defaultPath
			if len(args) == 1 {
				pythonDir = args[0]
			} else if ui.IsInteractive() {
				answer, err := ui.InputPrompt("PowerFactory Python folder", defaultPath, ui.ValidateNonEmpty)
				if err != nil {
					return err
				}
				pythonDir = answer
			}

			opts := diagnose.DefaultOptions()
			if cfg.Discovery.ScanDepth > 0 {
				opts.Depth = cfg.Discovery.ScanDepth
			}
			if cfg.Discovery.LibraryExt != "" {
				opts.LibraryExt = cfg.Discovery.LibraryExt
			}
			if cfg.Discovery.ExecutableExt != "" {
				opts.ExecutableExt = cfg.Discovery.ExecutableExt
			}

			log.Debug().Str("path", pythonDir).Int("depth", opts.Depth).Msg("diagnosing installation")

			report := diagnose.Inspect(afero.NewOsFs(), pythonDir, opts)
			printReport(cmd.OutOrStdout(), report)

			if !report.Exists {
				return fmt.Errorf("%s: %w", pythonDir, os.ErrNotExist)
			}
			return nil
		},
	}

	return cmd
}

func printReport(w io.Writer, r *diagnose.Report) {
	fmt.Fprintln(w, separatorLine)
	fmt.Fprintln(w, "PowerFactory Installation Diagnostics")
	fmt.Fprintln(w, separatorLine)
	fmt.Fprintf(w, "\nPython path: %s\n", r.Path)

	if !r.Exists {
		fmt.Fprintf(w, "%s Path not found: %s\n", ui.CrossMark, r.Path)
		return
	}
	fmt.Fprintf(w, "%s Path found\n", ui.CheckMark)

	fmt.Fprintf(w, "\nFiles in Python path:\n")
	printListing(w, r.Start, diagnose.StartListLimit)

	for _, level := range r.Levels {
		fmt.Fprintf(w, "\nLevel %d up: %s\n", level.Level, level.Dir)
		if level.Err == nil {
			fmt.Fprintf(w, "Contents (%d items):\n", len(level.Entries))
		}
		printListing(w, level, diagnose.LevelListLimit)
	}

	fmt.Fprintf(w, "\n%s\nChecking common library locations\n%s\n", separatorLine, separatorLine)
	for _, dir := range r.Checked {
		fmt.Fprintf(w, "\nChecking: %s\n", dir)
		for _, loc := range r.Libraries {
			if loc.Dir != dir && loc.Dir != filepath.Join(dir, "bin") {
				continue
			}
			fmt.Fprintf(w, "  %s Found %d library files in %s\n", ui.CheckMark, len(loc.Files), loc.Dir)
			printLimited(w, loc.Files, diagnose.LibraryListLimit, "    - ")
		}
	}

	fmt.Fprintf(w, "\n%s\nSummary and recommendations\n%s\n", separatorLine, separatorLine)
	if len(r.Libraries) == 0 {
		fmt.Fprintf(w, "\n%s No library locations found\n", ui.CrossMark)
		fmt.Fprintln(w, "\nTroubleshooting:")
		fmt.Fprintln(w, "1. Make sure PowerFactory is installed correctly")
		fmt.Fprintln(w, "2. Check that the PowerFactory executable exists in the installation folder")
		fmt.Fprintln(w, "3. Start PowerFactory once to confirm the application runs")
		return
	}

	fmt.Fprintf(w, "\n%s Found library locations:\n", ui.CheckMark)
	for _, dir := range r.LibraryDirs() {
		fmt.Fprintf(w, "  - %s\n", dir)
	}
	fmt.Fprintln(w, "\nAdd these folders to PATH:")
	fmt.Fprintln(w, "```python")
	for _, line := range r.Recommendations() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "```")
}

func printListing(w io.Writer, l diagnose.Listing, limit int) {
	if l.Err != nil {
		fmt.Fprintf(w, "%s Error listing files: %v\n", ui.CrossMark, l.Err)
		return
	}
	names := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		names = append(names, describeEntry(e))
	}
	printLimited(w, names, limit, "  ")
}

func describeEntry(e diagnose.Entry) string {
	switch e.Kind {
	case diagnose.KindDir:
		return e.Name + "/"
	case diagnose.KindBinDir:
		return e.Name + "/ (BIN FOLDER)"
	case diagnose.KindLibrary:
		return e.Name + " (LIBRARY)"
	case diagnose.KindExecutable:
		return e.Name + " (EXECUTABLE)"
	default:
		return e.Name
	}
}

func printLimited(w io.Writer, items []string, limit int, indent string) {
	for i, item := range items {
		if i == limit {
			fmt.Fprintf(w, "%s... and %d more\n", indent, len(items)-limit)
			return
		}
		fmt.Fprintf(w, "%s%s\n", indent, item)
	}
}
