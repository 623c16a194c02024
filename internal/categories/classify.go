package categories

import (
	"path/filepath"
	"strings"
)

// NormalizeExtension lower-cases an extension and strips a single leading
// dot. It performs no validation; use ValidateExtension at edit time.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Classify maps a file extension to a category name. The lookup is
// case-insensitive on both sides. When no category claims the extension the
// fallback name is returned with found=false. Categories are visited in
// sorted name order, so a duplicated extension resolves to the
// alphabetically first category rather than depending on map iteration.
func Classify(ext string, m Mapping, fallback string) (category string, found bool) {
	normalized := NormalizeExtension(ext)
	if normalized != "" {
		if name, ok := m.CategoryOf(normalized); ok {
			return name, true
		}
	}
	return fallback, false
}

// ClassifyPath classifies a file path by its extension.
func ClassifyPath(path string, m Mapping, fallback string) (category string, found bool) {
	return Classify(filepath.Ext(path), m, fallback)
}
