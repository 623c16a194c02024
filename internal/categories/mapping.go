package categories

import (
	"slices"
	"strings"
)

// Mapping associates category names with the lower-case, dot-free file
// extensions they claim. The zero value is usable.
type Mapping map[string][]string

// Clone returns a deep copy of the mapping.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return Mapping{}
	}
	out := make(Mapping, len(m))
	for name, exts := range m {
		out[name] = append([]string(nil), exts...)
	}
	return out
}

// Categories returns the category names in sorted order.
func (m Mapping) Categories() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Extensions returns a copy of the extension list for a category, sorted.
func (m Mapping) Extensions(category string) []string {
	exts := append([]string(nil), m[category]...)
	slices.Sort(exts)
	return exts
}

// CategoryOf returns the category currently claiming the given normalized
// extension, if any. Iteration is over sorted names so the answer is
// deterministic even if a hand-edited file duplicates an extension.
func (m Mapping) CategoryOf(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, name := range m.Categories() {
		for _, candidate := range m[name] {
			if strings.EqualFold(candidate, ext) {
				return name, true
			}
		}
	}
	return "", false
}

// merge overlays user-defined categories on top of the built-in set. Whole
// categories are replaced by name; user-only categories are added. Extension
// lists are never deep-merged.
func merge(builtin, user Mapping) Mapping {
	out := builtin.Clone()
	for name, exts := range user {
		out[name] = append([]string(nil), exts...)
	}
	return out
}
