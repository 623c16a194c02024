package faults

import (
	"errors"
	"io/fs"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	underlying := fs.ErrPermission
	err := Wrap(ErrConfigWrite, "categories", "save overlay", "disk unhappy", underlying)
	if !errors.Is(err, ErrConfigWrite) {
		t.Fatalf("expected ErrConfigWrite marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected underlying error preserved, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "sorter", "move", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient default, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{Wrap(ErrConflict, "sorter", "move", "destination exists", nil), "conflict"},
		{Wrap(ErrUnsupported, "sorter", "move", "cross-device", nil), "unsupported"},
		{Wrap(ErrDirectoryAccess, "sorter", "scan", "", nil), "directory-access"},
		{errors.New("plain"), "transient"},
	}
	for _, tc := range cases {
		if got := Label(tc.err); got != tc.want {
			t.Errorf("Label(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
