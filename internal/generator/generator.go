// Package generator renders PowerFactory automation scripts from embedded
// templates into an output directory.
package generator

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/quantmind-br/pfscript/internal/fsops"
	"github.com/quantmind-br/pfscript/internal/security"
	"github.com/quantmind-br/pfscript/internal/transaction"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ProbeMarker prefixes the JSON line printed by the probe script
const ProbeMarker = "PFSCRIPT_PROBE"

// DefaultExportPath is used when no export path is given
const DefaultExportPath = "results.csv"

const (
	fileTimeLayout   = "20060102_150405"
	headerTimeLayout = "2006-01-02 15:04:05"
	maxSuffix        = 1000
)

//go:embed templates/*.py.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("scripts").Funcs(template.FuncMap{"pyquote": PyQuote}).ParseFS(templateFS, "templates/*.py.tmpl"),
)

// Catalog records generated scripts
type Catalog interface {
	Create(ctx context.Context, script *core.GeneratedScript) error
}

// Generator writes scripts into OutputDir. Files are never overwritten.
type Generator struct {
	fs        afero.Fs
	outputDir string
	now       func() time.Time
	catalog   Catalog
	log       *zerolog.Logger
}

// New creates a generator writing into outputDir
func New(fs afero.Fs, outputDir string, log *zerolog.Logger) *Generator {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Generator{
		fs:        fs,
		outputDir: outputDir,
		now:       time.Now,
		log:       log,
	}
}

// WithClock replaces the time source used for file names and headers
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithCatalog records every generated script in c. A failed insert removes
// the written file.
func (g *Generator) WithCatalog(c Catalog) *Generator {
	g.catalog = c
	return g
}

// OutputDir returns the directory scripts are written to
func (g *Generator) OutputDir() string {
	return g.outputDir
}

type scriptData struct {
	Title       string
	GeneratedAt string
	StudyCase   string
	ExportPath  string
	Body        string
	Marker      string
}

// LoadFlow generates a load flow script. An empty studyCase keeps the
// currently active study case.
func (g *Generator) LoadFlow(ctx context.Context, studyCase string) (*core.GeneratedScript, error) {
	script := &core.GeneratedScript{Kind: core.ScriptKindLoadFlow, StudyCase: studyCase}
	data := scriptData{Title: "Auto-generated script for Load Flow Calculation", StudyCase: studyCase}
	return g.generate(ctx, script, "loadflow", "loadflow", data)
}

// Export generates a script writing terminal results to exportPath as CSV
func (g *Generator) Export(ctx context.Context, exportPath string) (*core.GeneratedScript, error) {
	if exportPath == "" {
		exportPath = DefaultExportPath
	}
	script := &core.GeneratedScript{Kind: core.ScriptKindExport, ExportPath: exportPath}
	data := scriptData{Title: "Auto-generated script for Export Results", ExportPath: exportPath}
	return g.generate(ctx, script, "export", "export_results", data)
}

// Custom wraps body with the standard header and bridge import
func (g *Generator) Custom(ctx context.Context, name, body string) (*core.GeneratedScript, error) {
	return g.custom(ctx, core.ScriptKindCustom, name, body)
}

// Network generates the network summary script (terminals, lines,
// generators and loads)
func (g *Generator) Network(ctx context.Context) (*core.GeneratedScript, error) {
	body, err := render("network", scriptData{})
	if err != nil {
		return nil, err
	}
	return g.custom(ctx, core.ScriptKindNetwork, "get_network_info", body)
}

// Probe generates the connection probe script
func (g *Generator) Probe(ctx context.Context) (*core.GeneratedScript, error) {
	script := &core.GeneratedScript{Kind: core.ScriptKindProbe}
	data := scriptData{Title: "Connection probe", Marker: ProbeMarker}
	return g.generate(ctx, script, "probe", "probe", data)
}

func (g *Generator) custom(ctx context.Context, kind core.ScriptKind, name, body string) (*core.GeneratedScript, error) {
	base := strings.TrimSuffix(name, ".py")
	if err := security.ValidateScriptName(base); err != nil {
		return nil, err
	}
	script := &core.GeneratedScript{Kind: kind, Name: base}
	data := scriptData{Title: "Auto-generated custom script", Body: body}
	return g.generate(ctx, script, "custom", base, data)
}

func (g *Generator) generate(ctx context.Context, script *core.GeneratedScript, tmpl, base string, data scriptData) (*core.GeneratedScript, error) {
	now := g.now()
	data.GeneratedAt = now.Format(headerTimeLayout)

	content, err := render(tmpl, data)
	if err != nil {
		return nil, err
	}

	if err := fsops.EnsureDir(g.fs, g.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	path, err := g.write(base+"_"+now.Format(fileTimeLayout), []byte(content))
	if err != nil {
		return nil, err
	}

	script.ID = uuid.New().String()
	script.Path = path
	script.CreatedAt = now

	if g.catalog != nil {
		tx := transaction.NewManager(g.log)
		tx.Add("remove generated script", func() error {
			return g.fs.Remove(path)
		})
		if err := g.catalog.Create(ctx, script); err != nil {
			g.log.Debug().Int("steps", tx.Pending()).Msg("rolling back generated script")
			if rbErr := tx.Rollback(); rbErr != nil {
				g.log.Error().Err(rbErr).Str("script", path).Msg("rollback failed")
			}
			return nil, fmt.Errorf("record script: %w", err)
		}
		tx.Commit()
	}

	g.log.Debug().
		Str("script", path).
		Str("kind", string(script.Kind)).
		Str("id", script.ID).
		Msg("script generated")

	return script, nil
}

// write creates stem.py, adding _2, _3, ... when the name is taken
func (g *Generator) write(stem string, content []byte) (string, error) {
	for i := 1; i <= maxSuffix; i++ {
		name := stem + ".py"
		if i > 1 {
			name = fmt.Sprintf("%s_%d.py", stem, i)
		}
		if err := security.ValidateWithinDir(g.outputDir, name); err != nil {
			return "", err
		}

		path := filepath.Join(g.outputDir, name)
		err := fsops.CreateExclusive(g.fs, path, content, 0644)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fsops.ErrExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", stem, g.outputDir)
}

func render(tmpl string, data scriptData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl+".py.tmpl", data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl, err)
	}
	return buf.String(), nil
}

// PyQuote renders s as a double quoted Python string literal
func PyQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
