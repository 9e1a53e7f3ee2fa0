package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/generator"
	"github.com/quantmind-br/pfscript/internal/security"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command and its per-template subcommands
func NewGenerateCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a PowerFactory script from a template",
		Long: `Generate a PowerFactory automation script into the output directory.
File names carry a timestamp; an existing file is never overwritten.`,
	}

	cmd.AddCommand(newGenerateLoadFlowCmd(cfg, log))
	cmd.AddCommand(newGenerateExportCmd(cfg, log))
	cmd.AddCommand(newGenerateCustomCmd(cfg, log))
	cmd.AddCommand(newGenerateNetworkCmd(cfg, log))

	return cmd
}

type generateFunc func(ctx context.Context, gen *generator.Generator) (*core.GeneratedScript, error)

// runGenerate opens the catalog, renders one script and reports its path
func runGenerate(cmd *cobra.Command, cfg *config.Config, log *zerolog.Logger, fn generateFunc) error {
	ctx := cmd.Context()
	s := newSession(cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
	defer s.close()

	gen, err := s.generator(ctx)
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}

	script, err := fn(ctx, gen)
	if err != nil {
		ui.PrintError("failed to generate script: %v", err)
		return err
	}

	log.Info().Str("script", script.Path).Str("kind", string(script.Kind)).Msg("script generated")
	fmt.Fprintln(cmd.OutOrStdout(), script.Path)
	return nil
}

func newGenerateLoadFlowCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var studyCase string

	cmd := &cobra.Command{
		Use:   "loadflow",
		Short: "Generate a load flow calculation script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, cfg, log, func(ctx context.Context, gen *generator.Generator) (*core.GeneratedScript, error) {
				return gen.LoadFlow(ctx, studyCase)
			})
		},
	}

	cmd.Flags().StringVar(&studyCase, "study-case", "", "study case to activate before the calculation (default: the active one)")

	return cmd
}

func newGenerateExportCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a script exporting terminal results to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := security.ValidatePath(exportPath); err != nil {
				return err
			}
			return runGenerate(cmd, cfg, log, func(ctx context.Context, gen *generator.Generator) (*core.GeneratedScript, error) {
				return gen.Export(ctx, exportPath)
			})
		},
	}

	cmd.Flags().StringVar(&exportPath, "export-path", generator.DefaultExportPath, "CSV file the script writes")

	return cmd
}

func newGenerateCustomCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		name     string
		body     string
		bodyFile string
	)

	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Wrap your own script body with the standard header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bodyFile != "" {
				data, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body file: %w", err)
				}
				body = string(data)
			}
			if body == "" {
				return errors.New("a script body is required (--body or --body-file)")
			}

			scriptName := security.SanitizeScriptName(name)
			if scriptName == "" {
				return fmt.Errorf("invalid script name %q", name)
			}

			return runGenerate(cmd, cfg, log, func(ctx context.Context, gen *generator.Generator) (*core.GeneratedScript, error) {
				return gen.Custom(ctx, scriptName, body)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "custom_script", "base name of the generated file")
	cmd.Flags().StringVar(&body, "body", "", "script body (Python code)")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "read the script body from a file")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")

	return cmd
}

func newGenerateNetworkCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Generate a script listing terminals, lines, generators and loads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, cfg, log, func(ctx context.Context, gen *generator.Generator) (*core.GeneratedScript, error) {
				return gen.Network(ctx)
			})
		},
	}
}
