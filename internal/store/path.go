package store

import "path/filepath"

// Extension is the suffix every store path carries.
const Extension = ".db"

// NormalizePath appends Extension to path unless it already ends with it.
func NormalizePath(path string) string {
	if filepath.Ext(path) != Extension {
		return path + Extension
	}
	return path
}
