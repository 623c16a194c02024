package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"

	"dropsort/internal/config"
	"dropsort/internal/faults"
	"dropsort/internal/logging"
)

// Kicker receives the request for an immediate sort cycle. The scheduler
// satisfies this.
type Kicker interface {
	Kick() error
}

// Watcher observes the drop directory and kicks the scheduler when new
// entries appear, so drops are handled without waiting out the remaining
// scan interval. Event bursts are debounced into a single kick.
type Watcher struct {
	cfg    *config.Config
	kicker Kicker
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a drop-directory watcher.
func New(cfg *config.Config, kicker Kicker, logger *slog.Logger) *Watcher {
	watcherLogger := logger
	if watcherLogger != nil {
		watcherLogger = watcherLogger.With(logging.String(logging.FieldComponent, "watcher"))
	} else {
		watcherLogger = logging.NewNop()
	}
	return &Watcher{cfg: cfg, kicker: kicker, logger: watcherLogger}
}

// Start begins watching dropDir. A returned error means event watching is
// unavailable on this system; the caller keeps running on the polling
// schedule alone.
func (w *Watcher) Start(ctx context.Context, dropDir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return faults.Wrap(faults.ErrUnsupported, "watcher", "start", "initialize filesystem notifications", err)
	}
	if err := fsw.Add(dropDir); err != nil {
		_ = fsw.Close()
		return faults.Wrap(faults.ErrDirectoryAccess, "watcher", "start", "watch drop directory", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	go w.run(runCtx, fsw)

	w.logger.Info("watching drop directory",
		logging.String(logging.FieldPath, dropDir),
		logging.Int("debounce_ms", w.cfg.Watcher.DebounceMS),
	)
	return nil
}

// Stop terminates event watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer func() { _ = fsw.Close() }()

	debounce := w.debounce()
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			if armed && !timer.Stop() {
				<-timer.C
			}
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("drop directory changed",
				logging.String(logging.FieldPath, event.Name),
				logging.String("op", event.Op.String()),
			)
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			armed = true
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watch error", logging.Error(err))
		case <-timer.C:
			armed = false
			if err := w.kicker.Kick(); err != nil {
				w.logger.Warn("failed to trigger sort cycle", logging.Error(err))
			}
		}
	}
}

func (w *Watcher) debounce() time.Duration {
	ms := w.cfg.Watcher.DebounceMS
	if ms <= 0 {
		ms = 300
	}
	return time.Duration(ms) * time.Millisecond
}
