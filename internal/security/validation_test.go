package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateScriptName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "get_network_info", false},
		{"with dash and dot", "lf-run.v2", false},
		{"empty", "", true},
		{"space", "my script", true},
		{"quote", `bad"name`, true},
		{"separator", "dir/name", true},
		{"backslash", `dir\name`, true},
		{"dot dot", "a..b", true},
		{"too long", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScriptName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(`C:\Program Files\DIgSILENT\PowerFactory 2022\Python\3.10`))
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("bad\x00path"))
	assert.Error(t, ValidatePath(strings.Repeat("a", 4096)))
}

func TestValidateWithinDir(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain file", "loadflow_20240101_120000.py", false},
		{"nested", "sub/file.py", false},
		{"parent", "../escape.py", true},
		{"dot dot only", "..", true},
		{"absolute", "/etc/passwd", true},
		{"cleaned inside", "sub/../file.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithinDir(base, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeScriptName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"get_network_info", "get_network_info"},
		{"get_network_info.py", "get_network_info"},
		{"  Get Network Info  ", "Get_Network_Info"},
		{"a/b\\c", "a_b_c"},
		{"weird\"'name", "weird_name"},
		{"..hidden", "hidden"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeScriptName(tt.input))
		})
	}
}
