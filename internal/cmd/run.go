package cmd

import (
	"errors"
	"time"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/security"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		method string
		python string
		wait   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a script",
		Long: `Execute a script with one of three methods:

  direct      run the script as __main__ in a fresh interpreter
  subprocess  run "python <script>" and capture its output
  bridge      import the PowerFactory bridge, connect to the running
              application and run the script with it bound as pf
              (alias: powerfactory)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := security.ValidatePath(args[0]); err != nil {
				return err
			}

			ctx := cmd.Context()
			s := newSession(cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			defer s.close()

			m, err := s.method(method)
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			if _, err := s.discover(); err != nil && !errors.Is(err, core.ErrInstallationNotFound) {
				ui.PrintError("%v", err)
				return err
			}

			if !cmd.Flags().Changed("wait") {
				wait = s.wait()
			}

			ui.PrintInfo("Executing %s (%s)", args[0], m)
			result := s.executor().ExecuteAndWait(ctx, args[0], m, wait, core.ExecuteOptions{Python: python})
			if result.Err != nil {
				ui.PrintError("%v", result.Err)
				return result.Err
			}

			log.Info().Str("script", args[0]).Str("method", string(m)).Dur("duration", result.Duration).Msg("script executed")
			ui.PrintSuccess("Script executed successfully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "execution method: direct, subprocess or bridge (default from config)")
	cmd.Flags().StringVar(&python, "python", "", "interpreter to use for this run")
	cmd.Flags().DurationVar(&wait, "wait", 0, "pause after execution (default from config)")

	return cmd
}
