package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/db"
	"github.com/quantmind-br/pfscript/internal/environ"
	"github.com/quantmind-br/pfscript/internal/executor"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/generator"
	"github.com/quantmind-br/pfscript/internal/helpers"
	"github.com/quantmind-br/pfscript/internal/paths"
	"github.com/quantmind-br/pfscript/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// session wires the components shared by the commands of one run
type session struct {
	cfg      *config.Config
	log      *zerolog.Logger
	fs       afero.Fs
	runner   helpers.CommandRunner
	resolver *paths.Resolver
	preparer *environ.Preparer
	out      io.Writer
	errOut   io.Writer

	discovered   bool
	installation *core.Installation
	discoverErr  error

	catalog *db.DB
}

func newSession(cfg *config.Config, log *zerolog.Logger, out, errOut io.Writer) *session {
	fs := afero.NewOsFs()
	return &session{
		cfg:      cfg,
		log:      log,
		fs:       fs,
		runner:   helpers.NewOSCommandRunner(),
		resolver: paths.NewResolver(fs, candidateList(cfg, log), log),
		preparer: environ.NewPreparer(log),
		out:      out,
		errOut:   errOut,
	}
}

// candidateList is the configured list (or the built-in one) followed by
// registry discoveries
func candidateList(cfg *config.Config, log *zerolog.Logger) []string {
	candidates := cfg.Discovery.Candidates
	if len(candidates) == 0 {
		candidates = paths.DefaultCandidates()
	}
	if cfg.Discovery.Registry && cfg.Discovery.RegistryKey != "" {
		extra := paths.RegistryCandidates(cfg.Discovery.RegistryKey)
		if len(extra) > 0 {
			log.Debug().Strs("candidates", extra).Msg("registry candidates")
			candidates = append(append([]string(nil), candidates...), extra...)
		}
	}
	return candidates
}

// discover resolves the installation once and prepares the search paths.
// A missing installation is not fatal here; callers decide.
func (s *session) discover() (*core.Installation, error) {
	if s.discovered {
		return s.installation, s.discoverErr
	}
	s.discovered = true

	inst, err := s.resolver.Resolve()
	if err != nil {
		s.discoverErr = err
		s.log.Debug().Err(err).Msg("installation discovery failed")
		return nil, err
	}

	if err := s.preparer.Prepare(inst); err != nil {
		s.discoverErr = fmt.Errorf("prepare environment: %w", err)
		return nil, s.discoverErr
	}

	s.installation = inst
	s.log.Debug().
		Strs("module_dirs", s.preparer.ModuleDirs()).
		Strs("library_dirs", inst.LibraryDirs).
		Msg("installation prepared")
	return inst, nil
}

// openCatalog opens the script catalog. It returns nil when no database file
// is configured.
func (s *session) openCatalog(ctx context.Context) (*db.DB, error) {
	if s.catalog != nil || s.cfg.Paths.DBFile == "" {
		return s.catalog, nil
	}
	if err := fsops.EnsureDir(s.fs, filepath.Dir(s.cfg.Paths.DBFile), 0755); err != nil {
		return nil, err
	}
	catalog, err := db.New(ctx, s.cfg.Paths.DBFile)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	s.catalog = catalog
	return catalog, nil
}

func (s *session) generator(ctx context.Context) (*generator.Generator, error) {
	gen := generator.New(s.fs, s.cfg.Paths.OutputDir, s.log)
	catalog, err := s.openCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		gen.WithCatalog(catalog)
	}
	return gen, nil
}

func (s *session) executor() *executor.Executor {
	return executor.New(s.runner, s.fs, s.preparer, s.installation, executor.Options{
		Python:       s.cfg.Executor.Python,
		BridgeModule: s.cfg.Executor.BridgeModule,
		Out:          s.out,
		ErrOut:       s.errOut,
		Progress:     ui.SpinnerFunc(os.Stderr, ui.IsInteractive()),
	}, s.log)
}

func (s *session) wait() time.Duration {
	return time.Duration(s.cfg.Executor.WaitSeconds) * time.Second
}

func (s *session) method(name string) (core.Method, error) {
	if name == "" {
		name = s.cfg.Executor.Method
	}
	return core.ParseMethod(name)
}

func (s *session) close() {
	if s.catalog != nil {
		if err := s.catalog.Close(); err != nil {
			s.log.Debug().Err(err).Msg("close catalog")
		}
		s.catalog = nil
	}
}
