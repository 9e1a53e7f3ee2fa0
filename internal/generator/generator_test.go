package generator

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quantmind-br/pfscript/internal/core"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC)

func newTestGenerator(fs afero.Fs) *Generator {
	return New(fs, "/out", nil).WithClock(func() time.Time { return fixedTime })
}

func readScript(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

type fakeCatalog struct {
	scripts []*core.GeneratedScript
	err     error
}

func (c *fakeCatalog) Create(_ context.Context, s *core.GeneratedScript) error {
	if c.err != nil {
		return c.err
	}
	c.scripts = append(c.scripts, s)
	return nil
}

func TestLoadFlow(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(fs)

	script, err := g.LoadFlow(context.Background(), "Base Case")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/out", "loadflow_20240315_143005.py"), script.Path)
	assert.Equal(t, core.ScriptKindLoadFlow, script.Kind)
	assert.Equal(t, "Base Case", script.StudyCase)
	assert.Equal(t, fixedTime, script.CreatedAt)
	assert.NotEmpty(t, script.ID)

	content := readScript(t, fs, script.Path)
	assert.Contains(t, content, "Generated at: 2024-03-15 14:30:05")
	assert.Contains(t, content, `study_case_name = "Base Case"`)
	assert.Contains(t, content, `app.GetFromStudyCase("ComLdf")`)
	assert.Contains(t, content, "import powerfactory as pf")
}

func TestLoadFlowWithoutStudyCase(t *testing.T) {
	fs := afero.NewMemMapFs()

	script, err := newTestGenerator(fs).LoadFlow(context.Background(), "")
	require.NoError(t, err)

	content := readScript(t, fs, script.Path)
	assert.Contains(t, content, "# Using current active study case")
	assert.NotContains(t, content, "study_case_name")
}

func TestStudyCaseIsEscaped(t *testing.T) {
	fs := afero.NewMemMapFs()

	script, err := newTestGenerator(fs).LoadFlow(context.Background(), `Case "A"\B`)
	require.NoError(t, err)

	content := readScript(t, fs, script.Path)
	assert.Contains(t, content, `study_case_name = "Case \"A\"\\B"`)
}

func TestExport(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(fs)

	t.Run("default path", func(t *testing.T) {
		script, err := g.Export(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultExportPath, script.ExportPath)
		assert.Equal(t, "export_results_20240315_143005.py", filepath.Base(script.Path))
		assert.Contains(t, readScript(t, fs, script.Path), `export_file = "results.csv"`)
	})

	t.Run("windows path", func(t *testing.T) {
		script, err := g.Export(context.Background(), `C:\results\out.csv`)
		require.NoError(t, err)
		assert.Contains(t, readScript(t, fs, script.Path), `export_file = "C:\\results\\out.csv"`)
	})
}

func TestCustom(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(fs)

	body := "print('hello')"
	script, err := g.Custom(context.Background(), "my_script.py", body)
	require.NoError(t, err)

	assert.Equal(t, "my_script_20240315_143005.py", filepath.Base(script.Path))
	assert.Equal(t, "my_script", script.Name)
	assert.Equal(t, core.ScriptKindCustom, script.Kind)

	content := readScript(t, fs, script.Path)
	assert.True(t, strings.HasPrefix(content, `"""`))
	assert.Contains(t, content, "Auto-generated custom script")
	assert.True(t, strings.HasSuffix(content, body+"\n"))
}

func TestCustomRejectsBadNames(t *testing.T) {
	g := newTestGenerator(afero.NewMemMapFs())

	for _, name := range []string{"", "../escape", "a/b", "with space"} {
		_, err := g.Custom(context.Background(), name, "pass")
		assert.Error(t, err, name)
	}
}

func TestNetwork(t *testing.T) {
	fs := afero.NewMemMapFs()

	script, err := newTestGenerator(fs).Network(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "get_network_info_20240315_143005.py", filepath.Base(script.Path))
	assert.Equal(t, core.ScriptKindNetwork, script.Kind)

	content := readScript(t, fs, script.Path)
	for _, pattern := range []string{"*.ElmTerm", "*.ElmLne", "*.ElmSym", "*.ElmLod"} {
		assert.Contains(t, content, pattern)
	}
}

func TestProbe(t *testing.T) {
	fs := afero.NewMemMapFs()

	script, err := newTestGenerator(fs).Probe(context.Background())
	require.NoError(t, err)

	content := readScript(t, fs, script.Path)
	assert.Contains(t, content, `print("PFSCRIPT_PROBE" + " " + json.dumps(probe()))`)
}

func TestRenderedScriptsCompile(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	ctx := context.Background()
	g := New(afero.NewOsFs(), t.TempDir(), nil)

	var scripts []*core.GeneratedScript
	add := func(s *core.GeneratedScript, err error) {
		t.Helper()
		require.NoError(t, err)
		scripts = append(scripts, s)
	}
	add(g.LoadFlow(ctx, `Case "A" \ 'b'`))
	add(g.LoadFlow(ctx, "line\nbreak"))
	add(g.LoadFlow(ctx, ""))
	add(g.Export(ctx, `C:\out\"x".csv`))
	add(g.Export(ctx, ""))
	add(g.Custom(ctx, "custom", "for i in range(2):\n    print(i)"))
	add(g.Network(ctx))
	add(g.Probe(ctx))

	for _, s := range scripts {
		out, err := exec.CommandContext(ctx, python, "-m", "py_compile", s.Path).CombinedOutput()
		assert.NoError(t, err, "%s: %s", filepath.Base(s.Path), out)
	}
}

func TestGenerationsOneSecondApartDoNotCollide(t *testing.T) {
	fs := afero.NewMemMapFs()
	now := fixedTime
	g := New(fs, "/out", nil).WithClock(func() time.Time { return now })

	first, err := g.LoadFlow(context.Background(), "")
	require.NoError(t, err)

	now = now.Add(time.Second)
	second, err := g.LoadFlow(context.Background(), "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSameSecondGetsSuffix(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(fs)

	var names []string
	for i := 0; i < 3; i++ {
		script, err := g.LoadFlow(context.Background(), "")
		require.NoError(t, err)
		names = append(names, filepath.Base(script.Path))
	}

	assert.Equal(t, []string{
		"loadflow_20240315_143005.py",
		"loadflow_20240315_143005_2.py",
		"loadflow_20240315_143005_3.py",
	}, names)
}

func TestOutputDirCreated(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := New(fs, "/deep/nested/out", nil)

	exists, err := afero.DirExists(fs, "/deep/nested/out")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = g.LoadFlow(context.Background(), "")
	require.NoError(t, err)

	exists, err = afero.DirExists(fs, "/deep/nested/out")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCatalog(t *testing.T) {
	t.Run("records script", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		catalog := &fakeCatalog{}
		g := newTestGenerator(fs).WithCatalog(catalog)

		script, err := g.LoadFlow(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, catalog.scripts, 1)
		assert.Equal(t, script.ID, catalog.scripts[0].ID)
	})

	t.Run("failed insert removes file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		g := newTestGenerator(fs).WithCatalog(&fakeCatalog{err: errors.New("disk full")})

		_, err := g.LoadFlow(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")

		exists, err := afero.Exists(fs, filepath.Join("/out", "loadflow_20240315_143005.py"))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPyQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b`, `"a\"b"`},
		{`C:\dir`, `"C:\\dir"`},
		{"line1\nline2", `"line1\nline2"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PyQuote(tt.in))
	}
}
