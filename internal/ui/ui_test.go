package ui

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	oldOut, oldErr, oldNoColor := Stdout, Stderr, color.NoColor
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	Stdout, Stderr = out, errOut
	color.NoColor = true
	t.Cleanup(func() {
		Stdout, Stderr, color.NoColor = oldOut, oldErr, oldNoColor
	})
	return out, errOut
}

func TestInitColors(t *testing.T) {
	old := color.NoColor
	defer func() { color.NoColor = old }()

	t.Run("never", func(t *testing.T) {
		color.NoColor = false
		InitColors("never")
		assert.True(t, color.NoColor)
	})

	t.Run("always", func(t *testing.T) {
		color.NoColor = true
		InitColors("always")
		assert.False(t, color.NoColor)
	})

	t.Run("auto with NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		color.NoColor = false
		InitColors("auto")
		assert.True(t, color.NoColor)
	})

	t.Run("auto with TERM=dumb", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		color.NoColor = false
		InitColors("auto")
		assert.True(t, color.NoColor)
	})
}

func TestPrintFunctions(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("generated %s", "a.py")
	PrintInfo("running")
	PrintHeader("Title")

	stdout := out.String()
	assert.Contains(t, stdout, "generated a.py")
	assert.Contains(t, stdout, "running")
	assert.Contains(t, stdout, "Title")
	assert.Empty(t, errOut.String())

	PrintError("boom %d", 1)
	PrintWarning("careful")
	assert.Contains(t, errOut.String(), "Error: boom 1")
	assert.Contains(t, errOut.String(), "careful")
}

func TestMark(t *testing.T) {
	assert.Equal(t, CheckMark, Mark(true))
	assert.Equal(t, CrossMark, Mark(false))
}

func TestColorizeKind(t *testing.T) {
	captureOutput(t)
	for _, kind := range []string{"loadflow", "export", "custom", "network", "probe", "other"} {
		assert.Equal(t, kind, ColorizeKind(kind))
	}
}

func TestMenuSearcher(t *testing.T) {
	items := []string{"Load Flow Calculation", "Export Results", "Custom Script - Get Network Info"}
	search := MenuSearcher(items)

	assert.True(t, search("", 0))
	assert.True(t, search("load", 0))
	assert.True(t, search("exp res", 1) || search("expres", 1))
	assert.True(t, search("network", 2))
	assert.False(t, search("network", 0))
	assert.False(t, search("x", 5))
}

func TestValidators(t *testing.T) {
	assert.Error(t, ValidateNonEmpty(""))
	assert.Error(t, ValidateNonEmpty("   "))
	assert.NoError(t, ValidateNonEmpty("x"))
}

func TestSpinner(t *testing.T) {
	s := StartSpinner(io.Discard, "running")
	s.Stop()
	s.Stop()
}

func TestSpinnerFunc(t *testing.T) {
	var buf bytes.Buffer
	stop := SpinnerFunc(&buf, false)("label")
	stop()
	assert.Empty(t, buf.String())

	stop = SpinnerFunc(io.Discard, true)("label")
	stop()
}

func TestIsInteractiveUnderTest(t *testing.T) {
	// go test does not attach a terminal to stdin
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		t.Skip("stdin is a terminal")
	}
	assert.False(t, IsInteractive())
}
