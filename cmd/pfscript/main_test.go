package main

import (
	"context"
	"testing"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the default data directory and log file out of the real home
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("PFSCRIPT_LOGGING_LEVEL", "error")
}

func TestConfigLoad(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err, "Configuration should load without error")
	assert.NotNil(t, cfg, "Configuration should not be nil")
}

func TestRun(t *testing.T) {
	isolate(t)

	assert.Equal(t, 0, run(context.Background(), []string{"version"}))
	assert.Equal(t, 0, run(context.Background(), []string{"--help"}))
}

func TestRun_Failure(t *testing.T) {
	isolate(t)

	assert.Equal(t, 1, run(context.Background(), []string{"no-such-command"}))
	assert.Equal(t, 1, run(context.Background(), []string{"run"}))
}
