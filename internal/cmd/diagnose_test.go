package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose(t *testing.T) {
	root := filepath.Join(t.TempDir(), "PowerFactory 2021")
	pythonDir := filepath.Join(root, "Python", "3.8")
	require.NoError(t, os.MkdirAll(pythonDir, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pythonDir, "powerfactory.pyd"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "PowerFactory.exe"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "digapi.dll"), nil, 0644))

	out, err := execute(t, testConfig(t), "diagnose", pythonDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Path found")
	assert.Contains(t, out, "powerfactory.pyd")
	assert.Contains(t, out, "PowerFactory.exe (EXECUTABLE)")
	assert.Contains(t, out, "bin/ (BIN FOLDER)")
	assert.Contains(t, out, "Found library locations")
	assert.Contains(t, out, filepath.Join(root, "bin"))
}

func TestDiagnose_NoLibraries(t *testing.T) {
	pythonDir := filepath.Join(t.TempDir(), "PF", "Python", "3.8")
	require.NoError(t, os.MkdirAll(pythonDir, 0755))

	out, err := execute(t, testConfig(t), "diagnose", pythonDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No library locations found")
}

func TestDiagnose_MissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nowhere")

	out, err := execute(t, testConfig(t), "diagnose", missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, out, "Path not found")
}
