package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"dropsort/internal/config"
	"dropsort/internal/logging"
	"dropsort/internal/notifications"
	"dropsort/internal/sorter"
	"dropsort/internal/workspace"
)

// State describes the scheduler lifecycle phase.
type State string

const (
	// StateIdle means the scheduler is not started or has been stopped.
	StateIdle State = "idle"
	// StateActive means the scheduler is waiting for the next cycle.
	StateActive State = "active"
	// StateRunning means a sort cycle is currently executing.
	StateRunning State = "running"
)

// CycleRunner executes one sort cycle. The sort engine satisfies this.
type CycleRunner interface {
	SortFolder(ctx context.Context, srcDir, dstDir string, progress sorter.ProgressFunc) (*sorter.Result, error)
}

// Status is a point-in-time snapshot of the scheduler.
type Status struct {
	State           State
	CyclesCompleted int
	LastCycleAt     time.Time
	LastMoved       int
	LastFailed      int
	LastError       string
	NextDue         time.Time
}

// Scheduler drives periodic sort cycles against the workspace. Cycles never
// overlap; a stop request takes effect at the next cycle boundary, letting
// an in-flight cycle finish.
type Scheduler struct {
	cfg      *config.Config
	runner   CycleRunner
	ws       workspace.Workspace
	notifier notifications.Service
	logger   *slog.Logger
	clock    Clock

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	kick    chan struct{}
	cycles  int
	lastAt  time.Time
	lastRes *sorter.Result
	lastErr error
	nextDue time.Time
}

// New constructs a scheduler using the system clock.
func New(cfg *config.Config, runner CycleRunner, ws workspace.Workspace, notifier notifications.Service, logger *slog.Logger) *Scheduler {
	return NewWithClock(cfg, runner, ws, notifier, logger, SystemClock())
}

// NewWithClock allows injecting the clock (used in tests).
func NewWithClock(cfg *config.Config, runner CycleRunner, ws workspace.Workspace, notifier notifications.Service, logger *slog.Logger, clock Clock) *Scheduler {
	schedulerLogger := logger
	if schedulerLogger != nil {
		schedulerLogger = schedulerLogger.With(logging.String(logging.FieldComponent, "scheduler"))
	} else {
		schedulerLogger = logging.NewNop()
	}
	return &Scheduler{
		cfg:      cfg,
		runner:   runner,
		ws:       ws,
		notifier: notifier,
		logger:   schedulerLogger,
		clock:    clock,
		state:    StateIdle,
		kick:     make(chan struct{}, 1),
	}
}

// Start begins the cycle loop. The first cycle fires one full scan interval
// after Start, not immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return errors.New("scheduler already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateActive
	s.wg.Add(1)
	go s.run(runCtx)
	s.logger.Info("scheduler started",
		logging.Int("scan_interval_seconds", s.cfg.Sorter.ScanInterval),
	)
	return nil
}

// Stop requests shutdown and blocks until the loop exits. An in-flight cycle
// runs to completion first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.logger.Info("scheduler stopped")
}

// Kick requests an immediate cycle, bypassing the remaining interval wait.
// Requests are coalesced: kicking during a running cycle schedules at most
// one extra cycle.
func (s *Scheduler) Kick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return errors.New("scheduler not running")
	}
	select {
	case s.kick <- struct{}{}:
	default:
	}
	return nil
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := Status{
		State:           s.state,
		CyclesCompleted: s.cycles,
		LastCycleAt:     s.lastAt,
		NextDue:         s.nextDue,
	}
	if s.lastRes != nil {
		status.LastMoved = s.lastRes.Moved
		status.LastFailed = s.lastRes.Failed
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	return status
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	wait := s.scanInterval()
	for {
		s.mu.Lock()
		s.nextDue = s.clock.Now().Add(wait)
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
		case <-s.kick:
		}
		if ctx.Err() != nil {
			return
		}

		if err := s.runCycle(ctx); err != nil {
			wait = s.retryInterval()
		} else {
			wait = s.scanInterval()
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.state == StateRunning {
			s.state = StateActive
		}
		s.mu.Unlock()
	}()

	// The cycle must finish even when shutdown was requested mid-cycle, so
	// cancellation is not propagated into the engine.
	cycleCtx := context.WithoutCancel(ctx)
	if err := s.ws.Ensure(); err != nil {
		s.recordCycleError(cycleCtx, err)
		return err
	}
	result, err := s.runner.SortFolder(cycleCtx, s.ws.DropDir(), s.ws.SortedDir(), nil)
	if err != nil {
		s.recordCycleError(cycleCtx, err)
		return err
	}

	s.mu.Lock()
	s.cycles++
	s.lastAt = s.clock.Now()
	s.lastRes = result
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) recordCycleError(ctx context.Context, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.lastAt = s.clock.Now()
	s.mu.Unlock()

	s.logger.Error("sort cycle failed",
		logging.Error(err),
		logging.Int("retry_seconds", s.cfg.Sorter.ErrorRetryInterval),
	)
	if s.notifier != nil {
		if notifyErr := s.notifier.NotifyCycleFailed(ctx, err); notifyErr != nil {
			s.logger.Warn("failed to send failure notification", logging.Error(notifyErr))
		}
	}
}

func (s *Scheduler) scanInterval() time.Duration {
	return secondsOrDefault(s.cfg.Sorter.ScanInterval, 5)
}

func (s *Scheduler) retryInterval() time.Duration {
	return secondsOrDefault(s.cfg.Sorter.ErrorRetryInterval, 5)
}

func secondsOrDefault(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
