package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/executor"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/generator"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ErrExampleFailed is returned when at least one example did not succeed
var ErrExampleFailed = errors.New("example failed")

var exampleMenu = []string{
	"Load Flow Calculation",
	"Export Results",
	"Custom Script - Get Network Info",
	"Sequential Execution (Load Flow + Export)",
	"Run all examples",
}

// NewExamplesCmd creates the examples command
func NewExamplesCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		choice int
		method string
		python string
	)

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Generate and run the bundled example scripts",
		Long: `Generate and execute example scripts against a running PowerFactory:

  1. Load flow calculation
  2. Export results to <results_dir>/exported_data.csv
  3. Custom script listing network elements
  4. Sequential execution (load flow, then export; stops if load flow fails)
  5. All of the above

Without --choice an interactive menu is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if choice == 0 {
				if !ui.IsInteractive() {
					return errors.New("--choice is required when not running in a terminal")
				}
				picked, err := promptExample(w)
				if err != nil {
					return err
				}
				choice = picked
			}
			if choice < 1 || choice > len(exampleMenu) {
				fmt.Fprintln(w, "Invalid choice")
				return fmt.Errorf("invalid choice %d (want 1-%d)", choice, len(exampleMenu))
			}

			s := newSession(cfg, log, w, cmd.ErrOrStderr())
			defer s.close()

			m, err := s.method(method)
			if err != nil {
				return err
			}
			if _, err := s.discover(); err != nil && !errors.Is(err, core.ErrInstallationNotFound) {
				return err
			}
			gen, err := s.generator(ctx)
			if err != nil {
				return err
			}

			r := &exampleRunner{
				w:          w,
				fs:         s.fs,
				gen:        gen,
				exec:       s.executor(),
				method:     m,
				wait:       s.wait(),
				opts:       core.ExecuteOptions{Python: python},
				resultsDir: cfg.Paths.ResultsDir,
				log:        log,
			}

			log.Debug().Int("choice", choice).Str("method", string(m)).Msg("running examples")
			if !r.run(ctx, choice) {
				return ErrExampleFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&choice, "choice", "c", 0, "example to run (1-5)")
	cmd.Flags().StringVarP(&method, "method", "m", string(core.MethodBridge), "execution method: direct, subprocess or bridge")
	cmd.Flags().StringVar(&python, "python", "", "interpreter to use")

	return cmd
}

func promptExample(w io.Writer) (int, error) {
	ui.PrintHeader("AUTO EXECUTION EXAMPLES\nPowerFactory Script Generator & Executor")
	fmt.Fprintln(w, "\nMake sure PowerFactory is running")
	fmt.Fprintln(w, "and a project is active!")

	if err := ui.PausePrompt("Press Enter to continue"); err != nil {
		return 0, err
	}

	index, err := ui.SelectPrompt("Choose an example", exampleMenu)
	if err != nil {
		return 0, err
	}
	return index + 1, nil
}

type exampleRunner struct {
	w          io.Writer
	fs         afero.Fs
	gen        *generator.Generator
	exec       *executor.Executor
	method     core.Method
	wait       time.Duration
	opts       core.ExecuteOptions
	resultsDir string
	log        *zerolog.Logger
}

func (r *exampleRunner) run(ctx context.Context, choice int) bool {
	switch choice {
	case 1:
		return r.loadFlow(ctx)
	case 2:
		return r.export(ctx)
	case 3:
		return r.network(ctx)
	case 4:
		return r.sequential(ctx)
	default:
		fmt.Fprintln(r.w, "\nRunning all examples...")
		ok := true
		for _, example := range []func(context.Context) bool{r.loadFlow, r.export, r.network, r.sequential} {
			if ctx.Err() != nil {
				return false
			}
			if !example(ctx) {
				ok = false
			}
		}
		return ok
	}
}

func (r *exampleRunner) banner(n int, title string) {
	if n > 1 {
		fmt.Fprintln(r.w)
	}
	fmt.Fprintln(r.w, separatorLine)
	fmt.Fprintf(r.w, "EXAMPLE %d: %s\n", n, title)
	fmt.Fprintln(r.w, separatorLine)
}

// execute runs one generated script and reports the outcome
func (r *exampleRunner) execute(ctx context.Context, script *core.GeneratedScript) bool {
	fmt.Fprintf(r.w, "\n%s Script generated: %s\n", ui.CheckMark, script.Path)
	fmt.Fprintln(r.w, "\nExecuting script in PowerFactory...")

	result := r.exec.ExecuteAndWait(ctx, script.Path, r.method, r.wait, r.opts)
	if result.Err != nil {
		fmt.Fprintf(r.w, "%s %v\n", ui.CrossMark, result.Err)
		r.log.Debug().Err(result.Err).Str("script", script.Path).Msg("example script failed")
		return false
	}
	return true
}

func (r *exampleRunner) generateFailed(err error) bool {
	fmt.Fprintf(r.w, "%s Failed to generate script: %v\n", ui.CrossMark, err)
	return false
}

// exportPath returns an absolute path for name inside the results folder,
// creating the folder
func (r *exampleRunner) exportPath(name string) (string, error) {
	dir, err := filepath.Abs(r.resultsDir)
	if err != nil {
		return "", err
	}
	if err := fsops.EnsureDir(r.fs, dir, 0755); err != nil {
		return "", err
	}
	if err := fsops.CheckWritable(r.fs, dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (r *exampleRunner) loadFlow(ctx context.Context) bool {
	r.banner(1, "Load Flow Calculation")

	script, err := r.gen.LoadFlow(ctx, "")
	if err != nil {
		return r.generateFailed(err)
	}
	if !r.execute(ctx, script) {
		fmt.Fprintf(r.w, "\n%s Load Flow calculation failed!\n", ui.CrossMark)
		return false
	}
	fmt.Fprintf(r.w, "\n%s Load Flow calculation completed successfully!\n", ui.CheckMark)
	return true
}

func (r *exampleRunner) export(ctx context.Context) bool {
	r.banner(2, "Export Results")

	path, err := r.exportPath("exported_data.csv")
	if err != nil {
		return r.generateFailed(err)
	}
	script, err := r.gen.Export(ctx, path)
	if err != nil {
		return r.generateFailed(err)
	}
	if !r.execute(ctx, script) {
		fmt.Fprintf(r.w, "\n%s Export failed!\n", ui.CrossMark)
		return false
	}
	fmt.Fprintf(r.w, "\n%s Results exported to: %s\n", ui.CheckMark, path)
	return true
}

func (r *exampleRunner) network(ctx context.Context) bool {
	r.banner(3, "Custom Script - Get Network Elements")

	script, err := r.gen.Network(ctx)
	if err != nil {
		return r.generateFailed(err)
	}
	if !r.execute(ctx, script) {
		fmt.Fprintf(r.w, "\n%s Custom script failed!\n", ui.CrossMark)
		return false
	}
	fmt.Fprintf(r.w, "\n%s Custom script executed successfully!\n", ui.CheckMark)
	return true
}

// sequential runs a load flow and then an export, skipping the export when
// the load flow fails
func (r *exampleRunner) sequential(ctx context.Context) bool {
	r.banner(4, "Sequential Execution")

	fmt.Fprintln(r.w, "\nStep 1: Running Load Flow...")
	script, err := r.gen.LoadFlow(ctx, "")
	if err != nil {
		return r.generateFailed(err)
	}
	if !r.execute(ctx, script) {
		fmt.Fprintf(r.w, "%s Load Flow failed, stopping execution\n", ui.CrossMark)
		return false
	}

	fmt.Fprintln(r.w, "\nStep 2: Exporting Results...")
	path, err := r.exportPath("sequential_export.csv")
	if err != nil {
		return r.generateFailed(err)
	}
	script, err = r.gen.Export(ctx, path)
	if err != nil {
		return r.generateFailed(err)
	}
	ok := r.execute(ctx, script)

	fmt.Fprintln(r.w, "\n"+separatorLine)
	if ok {
		fmt.Fprintf(r.w, "%s All scripts executed successfully!\n", ui.CheckMark)
	} else {
		fmt.Fprintf(r.w, "%s Some scripts failed!\n", ui.CrossMark)
	}
	fmt.Fprintln(r.w, separatorLine)
	return ok
}
