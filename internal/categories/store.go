package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"dropsort/internal/faults"
)

const (
	builtinFileName = "categories.json"
	userFileName    = "user_categories.json"
	removedFileName = "removed_categories.json"
)

// Store persists category mappings under a workspace state directory. It is
// the sole writer of the category files; the sort engine only reads through
// Load. Writes are atomic (temp file + rename) so a concurrent reader never
// observes a torn file.
type Store struct {
	dir      string
	fallback string
}

// NewStore binds a store to the given state directory. fallback names the
// catch-all category that Load always guarantees to exist.
func NewStore(dir, fallback string) *Store {
	if fallback == "" {
		fallback = "Other"
	}
	return &Store{dir: dir, fallback: fallback}
}

// Fallback returns the designated catch-all category name.
func (s *Store) Fallback() string { return s.fallback }

// BuiltinPath returns the built-in mapping file location.
func (s *Store) BuiltinPath() string { return filepath.Join(s.dir, builtinFileName) }

// UserPath returns the user overlay file location.
func (s *Store) UserPath() string { return filepath.Join(s.dir, userFileName) }

// RemovedPath returns the deleted-category tombstone file location.
func (s *Store) RemovedPath() string { return filepath.Join(s.dir, removedFileName) }

// Load returns the effective mapping: built-in defaults (materialized to
// disk on first use) with any user overlay categories replacing them whole,
// minus categories the user has deleted. A deleted built-in category stays
// gone across reloads via the tombstone file unless the overlay reintroduces
// it. The fallback category is always present in the result. A malformed
// persisted file surfaces as faults.ErrConfigRead rather than being
// silently replaced.
func (s *Store) Load() (Mapping, error) {
	builtin, err := s.loadBuiltin()
	if err != nil {
		return nil, err
	}

	user, err := readMappingFile(s.UserPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrConfigRead, "categories", "load overlay", s.UserPath(), err)
		}
		user = nil
	}

	removed, err := s.loadRemoved()
	if err != nil {
		return nil, err
	}

	merged := merge(builtin, user)
	for name := range removed {
		if _, inUser := user[name]; !inUser {
			delete(merged, name)
		}
	}
	if _, ok := merged[s.fallback]; !ok {
		merged[s.fallback] = []string{}
	}
	return merged, nil
}

// SaveUser persists the given mapping as the user overlay. Entries are
// validated and normalized on the way in; the caller keeps its in-memory
// mapping on failure so the write can be retried.
func (s *Store) SaveUser(m Mapping) error {
	normalized := make(Mapping, len(m))
	for rawName, exts := range m {
		name, err := ValidateCategoryName(rawName)
		if err != nil {
			return err
		}
		cleaned := make([]string, 0, len(exts))
		for _, rawExt := range exts {
			ext, err := ValidateExtension(rawExt)
			if err != nil {
				return err
			}
			cleaned = append(cleaned, ext)
		}
		normalized[name] = cleaned
	}
	if err := writeMappingFile(s.UserPath(), normalized); err != nil {
		return faults.Wrap(faults.ErrConfigWrite, "categories", "save overlay", s.UserPath(), err)
	}
	return nil
}

// AddExtension maps a validated extension to an existing category. An
// extension may live under at most one category; adding one that is already
// claimed anywhere fails with ErrDuplicateExtension.
func (s *Store) AddExtension(category, rawExt string) (Mapping, error) {
	ext, err := ValidateExtension(rawExt)
	if err != nil {
		return nil, err
	}
	current, err := s.Load()
	if err != nil {
		return nil, err
	}
	if _, ok := current[category]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if owner, ok := current.CategoryOf(ext); ok {
		return nil, fmt.Errorf("%w: %q already belongs to %q", ErrDuplicateExtension, ext, owner)
	}
	current[category] = append(current[category], ext)
	if err := s.SaveUser(current); err != nil {
		return nil, err
	}
	return current, nil
}

// RemoveExtension drops an extension from a category.
func (s *Store) RemoveExtension(category, rawExt string) (Mapping, error) {
	ext, err := ValidateExtension(rawExt)
	if err != nil {
		return nil, err
	}
	current, err := s.Load()
	if err != nil {
		return nil, err
	}
	exts, ok := current[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	kept := exts[:0]
	found := false
	for _, candidate := range exts {
		if candidate == ext {
			found = true
			continue
		}
		kept = append(kept, candidate)
	}
	if !found {
		return nil, fmt.Errorf("%w: %q has no extension %q", ErrUnknownExtension, category, ext)
	}
	current[category] = kept
	if err := s.SaveUser(current); err != nil {
		return nil, err
	}
	return current, nil
}

// AddCategory creates a new empty category.
func (s *Store) AddCategory(rawName string) (Mapping, error) {
	name, err := ValidateCategoryName(rawName)
	if err != nil {
		return nil, err
	}
	current, err := s.Load()
	if err != nil {
		return nil, err
	}
	if _, ok := current[name]; ok {
		return nil, faults.Wrap(faults.ErrConflict, "categories", "add category", fmt.Sprintf("category %q already exists", name), nil)
	}
	current[name] = []string{}
	if err := s.SaveUser(current); err != nil {
		return nil, err
	}
	if err := s.clearRemoved(name); err != nil {
		return nil, err
	}
	return current, nil
}

// RemoveCategory deletes a category and its extensions. The fallback
// category is undeletable.
func (s *Store) RemoveCategory(rawName string) (Mapping, error) {
	name, err := ValidateCategoryName(rawName)
	if err != nil {
		return nil, err
	}
	if name == s.fallback {
		return nil, ErrFallbackUndeletable
	}
	current, err := s.Load()
	if err != nil {
		return nil, err
	}
	if _, ok := current[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	delete(current, name)
	if err := s.SaveUser(current); err != nil {
		return nil, err
	}
	// Mark the name deleted so a built-in category does not reappear when
	// the overlay is merged on the next Load.
	if err := s.markRemoved(name); err != nil {
		return nil, err
	}
	return current, nil
}

// Reset removes the user overlay and the deletion tombstones so Load
// returns the built-in defaults.
func (s *Store) Reset() error {
	for _, path := range []string{s.UserPath(), s.RemovedPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return faults.Wrap(faults.ErrConfigWrite, "categories", "reset overlay", path, err)
		}
	}
	return nil
}

func (s *Store) loadBuiltin() (Mapping, error) {
	path := s.BuiltinPath()
	builtin, err := readMappingFile(path)
	if err == nil {
		return builtin, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, faults.Wrap(faults.ErrConfigRead, "categories", "load builtin", path, err)
	}
	defaults := DefaultMapping()
	if writeErr := writeMappingFile(path, defaults); writeErr != nil {
		return nil, faults.Wrap(faults.ErrConfigWrite, "categories", "materialize builtin", path, writeErr)
	}
	return defaults, nil
}

// loadRemoved reads the tombstone file: the names of categories the user
// deleted. Missing file means nothing was ever deleted.
func (s *Store) loadRemoved() (map[string]struct{}, error) {
	data, err := os.ReadFile(s.RemovedPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, faults.Wrap(faults.ErrConfigRead, "categories", "load tombstones", s.RemovedPath(), err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, faults.Wrap(faults.ErrConfigRead, "categories", "load tombstones", s.RemovedPath(), err)
	}
	removed := make(map[string]struct{}, len(names))
	for _, name := range names {
		removed[name] = struct{}{}
	}
	return removed, nil
}

func (s *Store) markRemoved(name string) error {
	removed, err := s.loadRemoved()
	if err != nil {
		return err
	}
	if removed == nil {
		removed = map[string]struct{}{}
	}
	removed[name] = struct{}{}
	return s.writeRemoved(removed)
}

func (s *Store) clearRemoved(name string) error {
	removed, err := s.loadRemoved()
	if err != nil {
		return err
	}
	if _, ok := removed[name]; !ok {
		return nil
	}
	delete(removed, name)
	return s.writeRemoved(removed)
}

func (s *Store) writeRemoved(removed map[string]struct{}) error {
	names := make([]string, 0, len(removed))
	for name := range removed {
		names = append(names, name)
	}
	sort.Strings(names)
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return faults.Wrap(faults.ErrConfigWrite, "categories", "save tombstones", s.RemovedPath(), err)
	}
	path := s.RemovedPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return faults.Wrap(faults.ErrConfigWrite, "categories", "save tombstones", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return faults.Wrap(faults.ErrConfigWrite, "categories", "save tombstones", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return faults.Wrap(faults.ErrConfigWrite, "categories", "save tombstones", path, err)
	}
	return nil
}

func readMappingFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func writeMappingFile(path string, m Mapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
