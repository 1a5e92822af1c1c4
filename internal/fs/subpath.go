package fs

import (
	"path/filepath"
	"strings"
)

// IsSubpath returns true if target is a proper subpath of prefix.
// Both paths are cleaned first. Returns false if target equals prefix or is
// outside prefix.
func IsSubpath(target, prefix string) bool {
	target = filepath.Clean(target)
	prefix = filepath.Clean(prefix)

	prefixWithSep := prefix
	if !strings.HasSuffix(prefixWithSep, string(filepath.Separator)) {
		prefixWithSep = prefix + string(filepath.Separator)
	}

	return strings.HasPrefix(target, prefixWithSep) && len(target) > len(prefix)
}
