package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dropsort/internal/faults"
)

const (
	// DropDirName is the source directory scanned each cycle.
	DropDirName = "Drop"
	// SortedDirName is the destination root for category folders.
	SortedDirName = "Sorted"
	// StateDirName holds category files and the history database.
	StateDirName = ".dropsort"

	markerFileName = "workspace.txt"
	recentFileName = "recent_workspaces.txt"

	// RecentLimit caps the remembered workspace list.
	RecentLimit = 5
)

// ErrNoWorkspace indicates no workspace has been chosen yet.
var ErrNoWorkspace = fmt.Errorf("%w: no workspace selected; run `dropsort workspace set <dir>`", faults.ErrNotFound)

// Workspace is a chosen root directory with the standard dropsort layout.
type Workspace struct {
	Root string
}

func (w Workspace) DropDir() string { return filepath.Join(w.Root, DropDirName) }

func (w Workspace) SortedDir() string { return filepath.Join(w.Root, SortedDirName) }

func (w Workspace) StateDir() string { return filepath.Join(w.Root, StateDirName) }

// Ensure creates the Drop, Sorted, and state directories under the root.
func (w Workspace) Ensure() error {
	for _, dir := range []string{w.Root, w.DropDir(), w.SortedDir(), w.StateDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return faults.Wrap(faults.ErrDirectoryAccess, "workspace", "ensure layout", dir, err)
		}
	}
	return nil
}

// Manager remembers the chosen workspace across runs via a marker file and a
// most-recent-first list, both plain text under the application config
// directory.
type Manager struct {
	configDir string
}

// NewManager binds a manager to the given config directory (normally
// ~/.config/dropsort).
func NewManager(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

// DefaultManager returns a manager rooted at ~/.config/dropsort.
func DefaultManager() (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewManager(filepath.Join(home, ".config", "dropsort")), nil
}

func (m *Manager) markerPath() string { return filepath.Join(m.configDir, markerFileName) }

func (m *Manager) recentPath() string { return filepath.Join(m.configDir, recentFileName) }

// Resolve picks the active workspace: an explicit configured root wins,
// otherwise the marker file is consulted. ErrNoWorkspace is returned when
// neither names a usable directory.
func (m *Manager) Resolve(configured string) (Workspace, error) {
	if root := strings.TrimSpace(configured); root != "" {
		return m.validateRoot(root)
	}

	data, err := os.ReadFile(m.markerPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Workspace{}, ErrNoWorkspace
		}
		return Workspace{}, faults.Wrap(faults.ErrConfigRead, "workspace", "read marker", m.markerPath(), err)
	}
	root := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	if root == "" {
		return Workspace{}, ErrNoWorkspace
	}
	return m.validateRoot(root)
}

// SetRoot records the chosen workspace root in the marker file and promotes
// it to the front of the recent list. The root directory is created when it
// does not exist yet.
func (m *Manager) SetRoot(root string) (Workspace, error) {
	abs, err := filepath.Abs(strings.TrimSpace(root))
	if err != nil {
		return Workspace{}, faults.Wrap(faults.ErrValidation, "workspace", "resolve root", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return Workspace{}, faults.Wrap(faults.ErrDirectoryAccess, "workspace", "create root", abs, err)
	}
	ws, err := m.validateRoot(abs)
	if err != nil {
		return Workspace{}, err
	}
	if err := m.writeTextFile(m.markerPath(), abs+"\n"); err != nil {
		return Workspace{}, faults.Wrap(faults.ErrConfigWrite, "workspace", "write marker", m.markerPath(), err)
	}
	if err := m.remember(abs); err != nil {
		return Workspace{}, err
	}
	return ws, nil
}

// Recent returns the remembered workspace roots, most recent first.
func (m *Manager) Recent() ([]string, error) {
	data, err := os.ReadFile(m.recentPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, faults.Wrap(faults.ErrConfigRead, "workspace", "read recent list", m.recentPath(), err)
	}
	var roots []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			roots = append(roots, line)
		}
	}
	return roots, nil
}

func (m *Manager) remember(root string) error {
	existing, err := m.Recent()
	if err != nil {
		return err
	}
	updated := make([]string, 0, RecentLimit)
	updated = append(updated, root)
	for _, entry := range existing {
		if entry == root {
			continue
		}
		updated = append(updated, entry)
		if len(updated) == RecentLimit {
			break
		}
	}
	content := strings.Join(updated, "\n") + "\n"
	if err := m.writeTextFile(m.recentPath(), content); err != nil {
		return faults.Wrap(faults.ErrConfigWrite, "workspace", "write recent list", m.recentPath(), err)
	}
	return nil
}

func (m *Manager) validateRoot(root string) (Workspace, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Workspace{}, faults.Wrap(faults.ErrDirectoryAccess, "workspace", "stat root", root, err)
	}
	if !info.IsDir() {
		return Workspace{}, faults.Wrap(faults.ErrDirectoryAccess, "workspace", "stat root", fmt.Sprintf("%q is not a directory", root), nil)
	}
	return Workspace{Root: root}, nil
}

func (m *Manager) writeTextFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
