package util

import (
	"os"
	"strings"
)

// ExpandPath applies environment-variable expansion to path and
// resolves a leading ~ to the current user's home directory. A path
// with no variables and no tilde is returned unchanged.
func ExpandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}
