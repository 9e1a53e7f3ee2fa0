package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewScriptsCmd creates the scripts command
func NewScriptsCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "List generated scripts",
		Long:  `List the scripts recorded in the catalog, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := newSession(cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			defer s.close()

			catalog, err := s.openCatalog(ctx)
			if err != nil {
				ui.PrintError("failed to open catalog: %v", err)
				return err
			}
			if catalog == nil {
				return errors.New("no catalog configured (paths.db_file is empty)")
			}

			scripts, err := catalog.List(ctx, core.ScriptKind(kind))
			if err != nil {
				ui.PrintError("failed to list scripts: %v", err)
				return err
			}

			if jsonOutput {
				if scripts == nil {
					scripts = []*core.GeneratedScript{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(scripts)
			}

			if len(scripts) == 0 {
				ui.PrintInfo("No scripts generated yet")
				return nil
			}

			table := newTable(cmd.OutOrStdout(), "ID", "Kind", "Created", "Detail", "Path")
			for _, script := range scripts {
				if err := table.Append(
					shortID(script.ID),
					ui.ColorizeKind(string(script.Kind)),
					script.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					scriptDetail(script),
					script.Path,
				); err != nil {
					return fmt.Errorf("render table: %w", err)
				}
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind (loadflow, export, custom, network, probe)")

	cmd.AddCommand(newScriptsRemoveCmd(cfg, log))

	return cmd
}

func newScriptsRemoveCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var keepFile bool

	cmd := &cobra.Command{
		Use:   "rm <id-or-prefix>",
		Short: "Remove a script from the catalog and delete its file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := newSession(cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			defer s.close()

			catalog, err := s.openCatalog(ctx)
			if err != nil {
				return err
			}
			if catalog == nil {
				return errors.New("no catalog configured (paths.db_file is empty)")
			}

			script, err := catalog.Find(ctx, args[0])
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}
			if err := catalog.Delete(ctx, script.ID); err != nil {
				return err
			}

			if !keepFile {
				if err := s.fs.Remove(script.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
					ui.PrintWarning("catalog entry removed but file could not be deleted: %v", err)
				}
			}

			log.Debug().Str("id", script.ID).Str("script", script.Path).Msg("script removed")
			ui.PrintSuccess("Removed %s", script.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepFile, "keep-file", false, "only remove the catalog entry")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func scriptDetail(s *core.GeneratedScript) string {
	switch {
	case s.StudyCase != "":
		return "study case: " + s.StudyCase
	case s.ExportPath != "":
		return "export: " + s.ExportPath
	case s.Name != "":
		return s.Name
	default:
		return "-"
	}
}
