package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dropsort/internal/faults"
)

func TestMoveEntryFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MoveEntry(src, dst); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("source should be gone")
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "hello" {
		t.Fatalf("dst content %q, err %v", got, err)
	}
}

func TestMoveEntryDirectoryWholesale(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "moved")
	if err := MoveEntry(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "nested", "a.txt")); err != nil {
		t.Fatalf("nested content should move with the directory: %v", err)
	}
}

func TestMoveEntryCollisionLeavesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	dst := filepath.Join(dir, "existing.pdf")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := MoveEntry(src, dst)
	if !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Source intact, destination untouched.
	if got, _ := os.ReadFile(src); string(got) != "new" {
		t.Fatal("source must remain in place on collision")
	}
	if got, _ := os.ReadFile(dst); string(got) != "old" {
		t.Fatal("destination must not be overwritten")
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("second call should succeed: %v", err)
	}
}
