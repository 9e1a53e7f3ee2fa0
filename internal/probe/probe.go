// Package probe checks that a running PowerFactory is reachable through the
// bridge and reads basic session information from it.
package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/executor"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/generator"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Prober runs the probe script through the bridge method
type Prober struct {
	fs   afero.Fs
	exec *executor.Executor
	log  *zerolog.Logger
}

// New creates a Prober
func New(fs afero.Fs, exec *executor.Executor, log *zerolog.Logger) *Prober {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Prober{fs: fs, exec: exec, log: log}
}

// Run generates the probe into a temporary directory, executes it and parses
// its report. The returned error is the classified execution error when the
// bridge could not be used.
func (p *Prober) Run(ctx context.Context) (*core.ConnectionInfo, error) {
	dir, err := fsops.CreateTempDir(p.fs, "pfscript-probe-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := p.fs.RemoveAll(dir); err != nil {
			p.log.Debug().Err(err).Str("dir", dir).Msg("failed to remove probe directory")
		}
	}()

	script, err := generator.New(p.fs, dir, p.log).Probe(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate probe: %w", err)
	}

	result := p.exec.Execute(ctx, script.Path, core.MethodBridge, core.ExecuteOptions{Quiet: true})
	if result.Err != nil {
		p.log.Debug().Str("stderr", result.Stderr).Msg("probe failed")
		return nil, result.Err
	}

	return Parse(result.Stdout)
}

// Parse extracts the probe report from the script output
func Parse(output string) (*core.ConnectionInfo, error) {
	prefix := generator.ProbeMarker + " "

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, prefix) {
			continue
		}

		var info core.ConnectionInfo
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, prefix)), &info); err != nil {
			return nil, fmt.Errorf("decode probe report: %w", err)
		}
		return &info, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read probe output: %w", err)
	}

	return nil, fmt.Errorf("probe report missing from output")
}
