package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"dropsort/internal/config"
	"dropsort/internal/history"
	"dropsort/internal/logging"
	"dropsort/internal/notifications"
	"dropsort/internal/scheduler"
	"dropsort/internal/watcher"
	"dropsort/internal/workspace"
)

// Daemon coordinates the background sorting services and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	ws       workspace.Workspace
	logger   *slog.Logger
	sched    *scheduler.Scheduler
	watch    *watcher.Watcher
	hist     *history.Store
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	Scheduler     scheduler.Status
	WorkspaceRoot string
	LockPath      string
	HistoryDBPath string
	WatcherActive bool
	PID           int
}

// New constructs a daemon from initialized dependencies. The watcher may be
// nil when event watching is disabled.
func New(cfg *config.Config, ws workspace.Workspace, sched *scheduler.Scheduler, watch *watcher.Watcher, hist *history.Store, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || sched == nil || hist == nil {
		return nil, errors.New("daemon requires config, scheduler, and history store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		ws:       ws,
		logger:   logger,
		sched:    sched,
		watch:    watch,
		hist:     hist,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the scheduler and watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("prepare lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dropsort daemon instance is already running")
	}

	if err := d.ws.Ensure(); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("prepare workspace: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.sched.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start scheduler: %w", err)
	}
	d.cancel = cancel

	if d.watch != nil {
		if err := d.watch.Start(runCtx, d.ws.DropDir()); err != nil {
			// Event watching is an optimization over the polling schedule.
			d.logger.Warn("drop watcher unavailable, relying on polling",
				logging.Error(err),
			)
			d.watch = nil
		}
	}

	d.running.Store(true)
	d.logger.Info("dropsort daemon started",
		logging.String("lock", d.lockPath),
		logging.String("workspace", d.ws.Root),
	)
	return nil
}

// Stop halts the watcher and scheduler and releases the daemon lock. An
// in-flight cycle finishes before Stop returns.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.watch != nil {
		d.watch.Stop()
	}
	d.sched.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("dropsort daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.hist != nil {
		return d.hist.Close()
	}
	return nil
}

// SortNow requests an immediate sort cycle.
func (d *Daemon) SortNow() error {
	if !d.running.Load() {
		return errors.New("daemon is not running")
	}
	return d.sched.Kick()
}

// Status reports current daemon state.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		Scheduler:     d.sched.Status(),
		WorkspaceRoot: d.ws.Root,
		LockPath:      d.lockPath,
		HistoryDBPath: d.hist.Path(),
		WatcherActive: d.watch != nil && d.running.Load(),
		PID:           os.Getpid(),
	}
}

// History returns up to limit recorded cycles, newest first.
func (d *Daemon) History(ctx context.Context, limit int) ([]history.CycleRecord, error) {
	return d.hist.RecentCycles(ctx, limit)
}

// Stats returns lifetime totals across all recorded cycles.
func (d *Daemon) Stats(ctx context.Context) (history.Stats, error) {
	return d.hist.TotalStats(ctx)
}

// TestNotification sends a test push through the configured notifier.
func (d *Daemon) TestNotification(ctx context.Context) error {
	if d.notifier == nil {
		return errors.New("notifications not configured")
	}
	return d.notifier.TestNotification(ctx)
}
