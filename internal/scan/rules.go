package scan

import (
	"path"
)

// Excluded reports whether a slash-separated relative path matches any of
// the exclude patterns. A pattern matches on an exact string comparison or
// a glob match (path.Match) against either the full relative path or the
// basename. Malformed glob patterns simply never match.
func Excluded(relPath string, patterns []string) bool {
	base := path.Base(relPath)

	for _, pattern := range patterns {
		if relPath == pattern || base == pattern {
			return true
		}
		if ok, err := path.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
