package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWithoutMarker(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Resolve("")
	if !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("expected ErrNoWorkspace, got %v", err)
	}
}

func TestResolveConfiguredWins(t *testing.T) {
	m := NewManager(t.TempDir())
	root := t.TempDir()
	ws, err := m.Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Root != root {
		t.Fatalf("root = %q, want %q", ws.Root, root)
	}
}

func TestSetRootPersistsMarker(t *testing.T) {
	cfgDir := t.TempDir()
	root := t.TempDir()
	m := NewManager(cfgDir)

	if _, err := m.SetRoot(root); err != nil {
		t.Fatal(err)
	}

	// A fresh manager over the same config dir resolves the same root.
	ws, err := NewManager(cfgDir).Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if ws.Root != root {
		t.Fatalf("resolved %q, want %q", ws.Root, root)
	}
}

func TestSetRootCreatesMissingRoot(t *testing.T) {
	cfgDir := t.TempDir()
	root := filepath.Join(t.TempDir(), "fresh")

	ws, err := NewManager(cfgDir).SetRoot(root)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(ws.Root)
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestSetRootRejectsFiles(t *testing.T) {
	cfgDir := t.TempDir()
	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(cfgDir).SetRoot(file); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestRecentDedupAndCap(t *testing.T) {
	m := NewManager(t.TempDir())

	roots := make([]string, 7)
	for i := range roots {
		roots[i] = t.TempDir()
		if _, err := m.SetRoot(roots[i]); err != nil {
			t.Fatal(err)
		}
	}

	// Re-adding an old entry moves it to the front without duplicating.
	if _, err := m.SetRoot(roots[4]); err != nil {
		t.Fatal(err)
	}

	recent, err := m.Recent()
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != RecentLimit {
		t.Fatalf("len = %d, want %d", len(recent), RecentLimit)
	}
	if recent[0] != roots[4] {
		t.Fatalf("front = %q, want %q", recent[0], roots[4])
	}
	seen := map[string]bool{}
	for _, r := range recent {
		if seen[r] {
			t.Fatalf("duplicate entry %q", r)
		}
		seen[r] = true
	}
}

func TestEnsureCreatesLayout(t *testing.T) {
	ws := Workspace{Root: filepath.Join(t.TempDir(), "space")}
	if err := ws.Ensure(); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{ws.DropDir(), ws.SortedDir(), ws.StateDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("missing dir %s: %v", dir, err)
		}
	}
}
