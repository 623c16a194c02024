package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dropsort/internal/logging"
	"dropsort/internal/testsupport"
)

type countingKicker struct {
	mu    sync.Mutex
	kicks int
}

func (k *countingKicker) Kick() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.kicks++
	return nil
}

func (k *countingKicker) count() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.kicks
}

func waitForKicks(t *testing.T, k *countingKicker, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if k.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d kicks, got %d", want, k.count())
}

func TestWatcherKicksOnDrop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Watcher.DebounceMS = 20
	ws := testsupport.Workspace(cfg)
	kicker := &countingKicker{}
	w := New(cfg, kicker, logging.NewNop())

	if err := w.Start(context.Background(), ws.DropDir()); err != nil {
		t.Skipf("filesystem notifications unavailable: %v", err)
	}
	defer w.Stop()

	testsupport.WriteFile(t, filepath.Join(ws.DropDir(), "incoming.txt"), "payload")
	waitForKicks(t, kicker, 1)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Watcher.DebounceMS = 150
	ws := testsupport.Workspace(cfg)
	kicker := &countingKicker{}
	w := New(cfg, kicker, logging.NewNop())

	if err := w.Start(context.Background(), ws.DropDir()); err != nil {
		t.Skipf("filesystem notifications unavailable: %v", err)
	}
	defer w.Stop()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		testsupport.WriteFile(t, filepath.Join(ws.DropDir(), name), "payload")
	}
	waitForKicks(t, kicker, 1)

	// Allow any spurious extra fires to land, then confirm coalescing.
	time.Sleep(300 * time.Millisecond)
	if kicker.count() > 2 {
		t.Fatalf("burst of drops should coalesce into few kicks, got %d", kicker.count())
	}
}

func TestWatcherStartOnMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	kicker := &countingKicker{}
	w := New(cfg, kicker, logging.NewNop())

	err := w.Start(context.Background(), filepath.Join(testsupport.BaseDir(cfg), "missing"))
	if err == nil {
		w.Stop()
		t.Fatal("expected error watching a missing directory")
	}
}
