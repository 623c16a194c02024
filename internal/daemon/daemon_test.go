package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dropsort/internal/categories"
	"dropsort/internal/config"
	"dropsort/internal/logging"
	"dropsort/internal/scheduler"
	"dropsort/internal/sorter"
	"dropsort/internal/testsupport"
)

func newTestDaemon(t *testing.T, cfg *config.Config) *Daemon {
	t.Helper()
	ws := testsupport.Workspace(cfg)
	hist := testsupport.MustOpenHistory(t, cfg)
	source := categories.NewStore(ws.StateDir(), cfg.Sorter.FallbackCategory)
	engine := sorter.NewEngineWithDependencies(cfg, source, hist, nil, logging.NewNop())
	sched := scheduler.New(cfg, engine, ws, nil, logging.NewNop())
	d, err := New(cfg, ws, sched, nil, hist, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	if d.Status().Running {
		t.Fatal("daemon must not report running before Start")
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	status := d.Status()
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.PID <= 0 {
		t.Fatalf("expected PID in status, got %d", status.PID)
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("daemon must not report running after Stop")
	}
}

func TestDaemonStartCreatesLockDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// A fresh install may not have the log directory yet; Start must create
	// it before acquiring the lock.
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "deep", "logs")
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if _, err := os.Stat(cfg.LockPath()); err != nil {
		t.Fatalf("expected lock file at %s: %v", cfg.LockPath(), err)
	}
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newTestDaemon(t, cfg)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second := newTestDaemon(t, cfg)
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail acquiring the lock")
	}
}

func TestDaemonSortNowRequiresRunning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	if err := d.SortNow(); err == nil {
		t.Fatal("expected SortNow to fail while stopped")
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()
	if err := d.SortNow(); err != nil {
		t.Fatalf("SortNow: %v", err)
	}
}
