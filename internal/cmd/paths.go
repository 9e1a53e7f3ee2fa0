package cmd

import (
	"fmt"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewPathsCmd creates the paths command
func NewPathsCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var existingOnly bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show the candidate installation folders",
		Long: `Show every folder searched for the PowerFactory Python bridge, in search
order, and mark the ones that exist. The first existing folder is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			defer s.close()

			selected := ""
			if inst, err := s.resolver.Resolve(); err == nil {
				selected = inst.PythonDir
			}

			table := newTable(cmd.OutOrStdout(), "#", "Exists", "Path")
			shown := 0
			for i, candidate := range s.resolver.Candidates() {
				exists := fsops.IsDir(s.fs, candidate)
				if existingOnly && !exists {
					continue
				}

				mark := ui.Mark(exists)
				if candidate == selected {
					mark += " (selected)"
				}
				if err := table.Append(fmt.Sprint(i+1), mark, candidate); err != nil {
					return fmt.Errorf("render table: %w", err)
				}
				shown++
			}

			if shown == 0 {
				ui.PrintWarning("No PowerFactory installation folder exists")
				return nil
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("render table: %w", err)
			}

			if selected == "" {
				ui.PrintWarning("No PowerFactory installation folder exists")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d candidate folders exist\n",
				len(s.resolver.Existing()), len(s.resolver.Candidates()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&existingOnly, "existing", false, "only show folders that exist")

	return cmd
}
