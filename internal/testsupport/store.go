package testsupport

import (
	"testing"

	"dropsort/internal/config"
	"dropsort/internal/history"
	"dropsort/internal/workspace"
)

// MustOpenHistory opens a history.Store inside the test workspace state
// directory and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	ws := workspace.Workspace{Root: cfg.Paths.Workspace}
	store, err := history.Open(ws.StateDir())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
