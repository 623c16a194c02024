package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dropsort/internal/testsupport"
)

func TestStatusAgainstRunningDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Running")
	requireContains(t, out, "no")

	resp, _, err := runCLI(t, []string{"status", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	requireContains(t, resp, `"running": false`)
}

func TestSortCommandFallsBackToLocal(t *testing.T) {
	env := setupCLITestEnv(t)
	ws := testsupport.Workspace(env.cfg)
	testsupport.DropFiles(t, ws.DropDir(), "song.mp3")

	// No daemon socket supplied: the cycle runs in-process.
	out, _, err := runCLI(t, []string{"sort", "--local"}, "", env.configPath)
	if err != nil {
		t.Fatalf("sort --local: %v", err)
	}
	requireContains(t, out, "Moved 1 of 1")

	out, _, err = runCLI(t, []string{"history"}, "", env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Lifetime: 1 cycles, 1 moved, 0 failed")
}

func TestSortViaDaemonSocket(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := env.daemon.Start(t.Context()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	ws := testsupport.Workspace(env.cfg)
	testsupport.DropFiles(t, ws.DropDir(), "notes.txt")

	out, _, err := runCLI(t, []string{"sort"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "Sort cycle triggered")

	deadline := time.Now().Add(3 * time.Second)
	sorted := filepath.Join(ws.SortedDir(), "Document", "notes.txt")
	for time.Now().Before(deadline) {
		if _, statErr := os.Stat(sorted); statErr == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected %s to exist after the kicked cycle", sorted)
}
