package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.Logging.Level, "expected default log level")
	assert.NotEmpty(t, cfg.Paths.OutputDir, "expected default output_dir")
	assert.NotEmpty(t, cfg.Paths.DBFile, "expected default db_file")
	assert.Equal(t, ".dll", cfg.Discovery.LibraryExt)
	assert.Equal(t, "powerfactory", cfg.Executor.BridgeModule)
	assert.Positive(t, cfg.Discovery.ScanDepth)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PFSCRIPT_EXECUTOR_METHOD", "subprocess")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "subprocess", cfg.Executor.Method)
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()
	t.Setenv("PFSCRIPT_TEST_DIR", "/opt/pf")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty path",
			input: "",
			want:  "",
		},
		{
			name:  "absolute path",
			input: "/usr/local/bin",
			want:  "/usr/local/bin",
		},
		{
			name:  "home expansion",
			input: "~/scripts",
			want:  filepath.Join(homeDir, "scripts"),
		},
		{
			name:  "env expansion",
			input: "$PFSCRIPT_TEST_DIR/out",
			want:  "/opt/pf/out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandPath(tt.input))
		})
	}
}
