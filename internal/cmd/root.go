package cmd

import (
	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pfscript",
		Short: "Generate and run DIgSILENT PowerFactory automation scripts",
		Long: `pfscript locates a PowerFactory installation, prepares the interpreter
search paths for its Python bridge, generates automation scripts from
templates and runs them against a running PowerFactory instance.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewDiagnoseCmd(cfg, log))
	cmd.AddCommand(NewConnectCmd(cfg, log))
	cmd.AddCommand(NewGenerateCmd(cfg, log))
	cmd.AddCommand(NewRunCmd(cfg, log))
	cmd.AddCommand(NewExamplesCmd(cfg, log))
	cmd.AddCommand(NewPathsCmd(cfg, log))
	cmd.AddCommand(NewScriptsCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
