package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Output targets. Tests swap these for buffers.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Color scheme for pfscript
var (
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	Muted = color.New(color.Faint)
	Bold  = color.New(color.Bold)

	CheckMark = color.GreenString("✓")
	CrossMark = color.RedString("✗")
	Arrow     = color.CyanString("→")

	// Script kind colors
	KindLoadFlow = color.New(color.FgBlue)
	KindExport   = color.New(color.FgMagenta)
	KindCustom   = color.New(color.FgYellow)
	KindNetwork  = color.New(color.FgCyan)
	KindProbe    = color.New(color.Faint)
)

const separator = "────────────────────────────────────────────────────────────"

// InitColors applies the configured color mode ("auto", "always" or
// "never"). NO_COLOR and TERM=dumb win over "auto".
func InitColors(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
		return
	case "never":
		color.NoColor = true
		return
	}

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(Stdout, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(Stderr, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(Stderr, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(Stdout, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintHeader prints a banner between separators
func PrintHeader(text string) {
	fmt.Fprintln(Stdout)
	Muted.Fprintln(Stdout, separator)
	Bold.Fprintln(Stdout, text)
	Muted.Fprintln(Stdout, separator)
}

// Mark returns a check or cross mark
func Mark(ok bool) string {
	if ok {
		return CheckMark
	}
	return CrossMark
}

// ColorizeKind returns a colored script kind
func ColorizeKind(kind string) string {
	switch kind {
	case "loadflow":
		return KindLoadFlow.Sprint(kind)
	case "export":
		return KindExport.Sprint(kind)
	case "custom":
		return KindCustom.Sprint(kind)
	case "network":
		return KindNetwork.Sprint(kind)
	case "probe":
		return KindProbe.Sprint(kind)
	default:
		return kind
	}
}

