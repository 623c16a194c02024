package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"dropsort/internal/faults"
)

// EnsureDir creates the directory (and parents) if missing. Idempotent.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return faults.Wrap(faults.ErrDirectoryAccess, "fileutil", "ensure dir", path, err)
	}
	return nil
}

// MoveEntry relocates a file or directory with os.Rename only.
//
// Two failure modes carry explicit markers:
//   - a destination that already exists fails with faults.ErrConflict and
//     leaves the source untouched (never overwrite, never skip silently);
//   - a cross-device rename (EXDEV) fails with faults.ErrUnsupported, as
//     copy-then-delete degradation is deliberately not provided.
func MoveEntry(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return faults.Wrap(faults.ErrConflict, "fileutil", "move", fmt.Sprintf("destination %q already exists", dst), nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return faults.Wrap(faults.ErrTransient, "fileutil", "move", fmt.Sprintf("stat destination %q", dst), err)
	}

	if err := os.Rename(src, dst); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			return faults.Wrap(faults.ErrUnsupported, "fileutil", "move", fmt.Sprintf("%q and %q are on different volumes", src, dst), err)
		}
		if errors.Is(err, fs.ErrExist) {
			return faults.Wrap(faults.ErrConflict, "fileutil", "move", fmt.Sprintf("destination %q already exists", dst), err)
		}
		return faults.Wrap(faults.ErrTransient, "fileutil", "move", fmt.Sprintf("rename %q", src), err)
	}
	return nil
}
