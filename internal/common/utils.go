package common

import (
	"path/filepath"
	"strings"
)

// HasAnyExt returns true if name ends with any of the extensions,
// ignoring case. Extensions include the leading dot.
func HasAnyExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
