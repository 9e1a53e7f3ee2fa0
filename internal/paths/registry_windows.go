//go:build windows

package paths

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// Value names under which installers record the installation folder
var installDirValues = []string{"InstallationDirectory", "InstallDir", "Path"}

// RegistryCandidates lists Python\3.* folders of every PowerFactory release
// registered under HKEY_LOCAL_MACHINE\<key>. Registry errors yield no
// candidates.
func RegistryCandidates(key string) []string {
	root, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return nil
	}
	defer root.Close()

	names, err := root.ReadSubKeyNames(-1)
	if err != nil {
		return nil
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		if !strings.HasPrefix(name, "PowerFactory") {
			continue
		}
		dir := readInstallDir(key + `\` + name)
		if dir == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, "Python", "3.*"))
		if err != nil {
			continue
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out
}

func readInstallDir(path string) string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	for _, value := range installDirValues {
		if dir, _, err := k.GetStringValue(value); err == nil && dir != "" {
			return dir
		}
	}
	return ""
}
