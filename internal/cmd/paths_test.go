package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "PowerFactory2021", "Python", "3.8")
	present := filepath.Join(dir, "PowerFactory2022", "Python", "3.10")
	require.NoError(t, os.MkdirAll(present, 0755))

	cfg := testConfig(t)
	cfg.Discovery.Candidates = []string{missing, present}

	out, err := execute(t, cfg, "paths")
	require.NoError(t, err)
	assert.Contains(t, out, missing)
	assert.Contains(t, out, present)
	assert.Contains(t, out, "(selected)")
	assert.Contains(t, out, "1 of 2 candidate folders exist")

	out, err = execute(t, cfg, "paths", "--existing")
	require.NoError(t, err)
	assert.NotContains(t, out, missing)
	assert.Contains(t, out, present)
}

func TestPaths_NoneExist(t *testing.T) {
	out, err := execute(t, testConfig(t), "paths", "--existing")
	require.NoError(t, err)
	assert.NotContains(t, out, "(selected)")
}
