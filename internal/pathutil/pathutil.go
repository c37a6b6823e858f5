package pathutil

import "strings"

// ExpandHome replaces a leading ~ path segment with home.
// Paths such as ~other/src are returned unchanged.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return strings.TrimSuffix(home, "/") + path[1:]
	}
	return path
}
