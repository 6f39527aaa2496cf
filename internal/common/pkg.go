package common

import (
	"path"
	"strings"
)

// ImportName returns the package name assumed for an import path without an
// explicit name: the last element, skipping a major version suffix, cut at
// the first dot and without a "go-" prefix.
// Returns empty string if importPath is empty.
func ImportName(importPath string) string {
	if importPath == "" {
		return ""
	}

	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." {
			base = path.Base(dir)
		}
	}

	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}

	base = strings.TrimPrefix(base, "go-")

	return strings.ReplaceAll(base, "-", "_")
}

// IsStdlib reports whether importPath looks like a standard library package,
// i.e. its first element has no dot.
func IsStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
