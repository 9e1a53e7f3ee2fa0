package cmd

import (
	"io"
	"testing"

	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompletionCmd(t *testing.T) {
	logger := zerolog.New(io.Discard)

	cmd := NewCompletionCmd(&config.Config{}, &logger)

	assert.NotNil(t, cmd)
	assert.Contains(t, cmd.Use, "completion")
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
}

func TestCompletionCmd(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, testConfig(t), "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "pfscript")
		})
	}
}

func TestCompletionCmd_InvalidShell(t *testing.T) {
	_, err := execute(t, testConfig(t), "completion", "tcsh")
	assert.Error(t, err)

	_, err = execute(t, testConfig(t), "completion")
	assert.Error(t, err)
}
