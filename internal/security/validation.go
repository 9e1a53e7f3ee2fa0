package security

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidScriptNameRegex allows alphanumeric, dash, underscore, and dot
var ValidScriptNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateScriptName validates the base name of a custom script
func ValidateScriptName(name string) error {
	if name == "" {
		return fmt.Errorf("script name cannot be empty")
	}

	if len(name) > 200 {
		return fmt.Errorf("script name too long (max 200 characters)")
	}

	if !ValidScriptNameRegex.MatchString(name) {
		return fmt.Errorf("invalid script name %q: must contain only alphanumeric, dash, underscore, or dot characters", name)
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("script name contains ..: %s", name)
	}

	return nil
}

// ValidatePath performs general path validation
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null bytes: %q", path)
	}

	if len(path) >= 4096 {
		return fmt.Errorf("path too long: %d characters", len(path))
	}

	return nil
}

// ValidateWithinDir ensures that name, joined to baseDir, does not escape it
func ValidateWithinDir(baseDir, name string) error {
	cleanName := filepath.Clean(name)

	if filepath.IsAbs(cleanName) {
		return fmt.Errorf("absolute path not allowed: %s", name)
	}

	if cleanName == ".." || strings.HasPrefix(cleanName, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes %s: %s", baseDir, name)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}

	target, err := filepath.Abs(filepath.Join(baseDir, cleanName))
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return fmt.Errorf("path escapes %s: %s", baseDir, name)
	}

	return nil
}

// SanitizeScriptName turns free text into a usable script base name.
// Whitespace and other characters become underscores, runs are collapsed,
// and a trailing ".py" is dropped.
func SanitizeScriptName(input string) string {
	result := strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
	result = strings.TrimSuffix(result, ".py")

	var builder strings.Builder
	for _, r := range result {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			builder.WriteRune(r)
		case r == '-' || r == '.':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}
	result = builder.String()

	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	for strings.Contains(result, "..") {
		result = strings.ReplaceAll(result, "..", ".")
	}

	return strings.Trim(result, "_.")
}
