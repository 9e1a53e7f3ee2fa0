package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/probe"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const unavailable = "(unavailable)"

// NewConnectCmd creates the connect command
func NewConnectCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Test the connection to a running PowerFactory",
		Long: `Locate the installation, import the bridge module and connect to the
running application, then report its version, user, active project and
active study case. Exits with status 1 when any step fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			s := newSession(cfg, log, w, cmd.ErrOrStderr())
			defer s.close()

			fmt.Fprintln(w, separatorLine)
			fmt.Fprintln(w, "PowerFactory Connection Test")
			fmt.Fprintln(w, separatorLine)

			fmt.Fprintln(w, "\n0. Locating PowerFactory installation...")
			inst, err := s.discover()
			if err != nil {
				fmt.Fprintf(w, "   %s PowerFactory installation not found in the known locations\n", ui.CrossMark)
				fmt.Fprintln(w, "\n   Add the folder holding the bridge module to discovery.candidates,")
				fmt.Fprintln(w, "   or run 'pfscript diagnose <python-dir>' to inspect an installation.")
				printConnectSummary(w, false)
				return err
			}
			fmt.Fprintf(w, "   %s Found: %s\n", ui.CheckMark, inst.PythonDir)
			fmt.Fprintf(w, "   %s PowerFactory base directory: %s\n", ui.CheckMark, inst.BaseDir)
			for _, dir := range inst.LibraryDirs {
				fmt.Fprintf(w, "   %s Library path added: %s\n", ui.CheckMark, dir)
			}

			exec := s.executor()
			if path, err := s.runner.LookPath(exec.Python()); err == nil {
				fmt.Fprintf(w, "   %s Interpreter: %s\n", ui.CheckMark, path)
			} else {
				fmt.Fprintf(w, "   ⚠ Interpreter %s not found in PATH\n", exec.Python())
			}

			fmt.Fprintln(w, "\n1. Importing the powerfactory module...")
			info, err := probe.New(s.fs, exec, log).Run(ctx)
			switch {
			case errors.Is(err, core.ErrBridgeImport):
				fmt.Fprintf(w, "   %s Module powerfactory not found\n", ui.CrossMark)
				fmt.Fprintf(w, "   Error: %v\n", err)
				fmt.Fprintln(w, "\n   Make sure PowerFactory is installed and its Python API is configured.")
				printConnectSummary(w, false)
				return err
			case err != nil && !errors.Is(err, core.ErrAppUnavailable):
				fmt.Fprintf(w, "   %s Probe failed: %v\n", ui.CrossMark, err)
				printConnectTroubleshooting(w)
				printConnectSummary(w, false)
				return err
			}
			fmt.Fprintf(w, "   %s Module powerfactory found\n", ui.CheckMark)

			fmt.Fprintln(w, "\n2. Connecting to PowerFactory...")
			if err != nil {
				fmt.Fprintf(w, "   %s Could not get the PowerFactory application\n", ui.CrossMark)
				fmt.Fprintln(w, "   Make sure PowerFactory is running.")
				printConnectTroubleshooting(w)
				printConnectSummary(w, false)
				return err
			}
			fmt.Fprintf(w, "   %s Connected to PowerFactory\n", ui.CheckMark)

			fmt.Fprintln(w, "\n3. PowerFactory information:")
			fmt.Fprintf(w, "   - Version: %s\n", orUnavailable(info.Version))
			fmt.Fprintf(w, "   - User: %s\n", orUnavailable(info.User))

			fmt.Fprintln(w, "\n4. Checking active project...")
			if info.Project != "" {
				fmt.Fprintf(w, "   %s Active Project: %s\n", ui.CheckMark, info.Project)
			} else {
				fmt.Fprintln(w, "   ⚠ No active project")
				fmt.Fprintln(w, "   (This is normal when no project has been opened yet)")
			}

			fmt.Fprintln(w, "\n5. Checking active study case...")
			if info.StudyCase != "" {
				fmt.Fprintf(w, "   %s Active Study Case: %s\n", ui.CheckMark, info.StudyCase)
			} else {
				fmt.Fprintln(w, "   ⚠ No active study case")
			}

			log.Info().Str("version", info.Version).Str("project", info.Project).Msg("connection test passed")
			printConnectSummary(w, true)
			return nil
		},
	}

	return cmd
}

func orUnavailable(v string) string {
	if v == "" {
		return unavailable
	}
	return v
}

func printConnectTroubleshooting(w io.Writer) {
	fmt.Fprintln(w, "\n   Troubleshooting:")
	fmt.Fprintln(w, "   - Make sure PowerFactory is running")
	fmt.Fprintln(w, "   - Make sure the Python API is configured")
	fmt.Fprintln(w, "   - Check that the bridge folder is listed by 'pfscript paths'")
}

func printConnectSummary(w io.Writer, ok bool) {
	fmt.Fprintln(w, "\n"+separatorLine)
	if ok {
		fmt.Fprintf(w, "%s Connection to PowerFactory SUCCEEDED\n", ui.CheckMark)
	} else {
		fmt.Fprintf(w, "%s Connection FAILED\n", ui.CrossMark)
	}
	fmt.Fprintln(w, separatorLine)
}
