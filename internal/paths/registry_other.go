//go:build !windows

package paths

// RegistryCandidates has nothing to query outside Windows
func RegistryCandidates(string) []string {
	return nil
}
