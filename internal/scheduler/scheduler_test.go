package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dropsort/internal/logging"
	"dropsort/internal/sorter"
	"dropsort/internal/testsupport"
)

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.waiters = append(c.waiters, ch)
	return ch
}

// Fire releases every armed timer as if its duration elapsed.
func (c *fakeClock) Fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	for _, ch := range c.waiters {
		ch <- c.now
	}
	c.waiters = nil
}

func (c *fakeClock) armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters) > 0
}

type stubRunner struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	err     error
	result  *sorter.Result
}

func (r *stubRunner) SortFolder(_ context.Context, _, _ string, progress sorter.ProgressFunc) (*sorter.Result, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return nil, r.err
	}
	if progress != nil {
		progress(0, 0)
	}
	result := r.result
	if result == nil {
		result = &sorter.Result{Moved: 2}
	}
	return result, nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type captureNotifier struct {
	mu       sync.Mutex
	failures []error
}

func (c *captureNotifier) NotifyCycleCompleted(context.Context, int, int, time.Duration) error {
	return nil
}

func (c *captureNotifier) NotifyCycleFailed(_ context.Context, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, err)
	return nil
}

func (c *captureNotifier) TestNotification(context.Context) error { return nil }

func (c *captureNotifier) failureCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestScheduler(t *testing.T, runner CycleRunner, clock Clock) *Scheduler {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	ws := testsupport.Workspace(cfg)
	return NewWithClock(cfg, runner, ws, nil, logging.NewNop(), clock)
}

func TestSchedulerFirstCycleWaitsFullInterval(t *testing.T) {
	clock := newFakeClock()
	runner := &stubRunner{}
	sched := newTestScheduler(t, runner, clock)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	waitFor(t, "timer armed", clock.armed)
	if runner.callCount() != 0 {
		t.Fatalf("cycle must not run before the first interval elapses")
	}

	clock.Fire()
	waitFor(t, "first cycle", func() bool { return runner.callCount() == 1 })

	waitFor(t, "status update", func() bool { return sched.Status().CyclesCompleted == 1 })
	status := sched.Status()
	if status.LastMoved != 2 {
		t.Fatalf("expected last cycle result in status, got %+v", status)
	}
	if status.State != StateActive {
		t.Fatalf("expected active state between cycles, got %s", status.State)
	}
}

func TestSchedulerKickTriggersImmediateCycle(t *testing.T) {
	clock := newFakeClock()
	runner := &stubRunner{}
	sched := newTestScheduler(t, runner, clock)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	if err := sched.Kick(); err != nil {
		t.Fatalf("Kick: %v", err)
	}
	waitFor(t, "kicked cycle", func() bool { return runner.callCount() == 1 })
}

func TestSchedulerKickWhenIdle(t *testing.T) {
	sched := newTestScheduler(t, &stubRunner{}, newFakeClock())
	if err := sched.Kick(); err == nil {
		t.Fatal("expected error kicking a stopped scheduler")
	}
}

func TestSchedulerStopLetsInFlightCycleFinish(t *testing.T) {
	clock := newFakeClock()
	runner := &stubRunner{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	sched := newTestScheduler(t, runner, clock)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sched.Kick(); err != nil {
		t.Fatalf("Kick: %v", err)
	}
	<-runner.started

	if state := sched.Status().State; state != StateRunning {
		t.Fatalf("expected running state mid-cycle, got %s", state)
	}

	stopped := make(chan struct{})
	go func() {
		sched.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a cycle was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the cycle finished")
	}

	if sched.Status().State != StateIdle {
		t.Fatalf("expected idle state after stop, got %s", sched.Status().State)
	}
	if sched.Status().CyclesCompleted != 1 {
		t.Fatalf("in-flight cycle must complete, got %d cycles", sched.Status().CyclesCompleted)
	}
}

func TestSchedulerCycleErrorNotifiesAndRetries(t *testing.T) {
	clock := newFakeClock()
	runner := &stubRunner{err: errors.New("drop directory vanished")}
	cfg := testsupport.NewConfig(t)
	ws := testsupport.Workspace(cfg)
	notifier := &captureNotifier{}
	sched := NewWithClock(cfg, runner, ws, notifier, logging.NewNop(), clock)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	if err := sched.Kick(); err != nil {
		t.Fatalf("Kick: %v", err)
	}
	waitFor(t, "failed cycle", func() bool { return runner.callCount() == 1 })
	waitFor(t, "failure notification", func() bool { return notifier.failureCount() == 1 })

	waitFor(t, "status error", func() bool { return sched.Status().LastError != "" })
	if sched.Status().CyclesCompleted != 0 {
		t.Fatalf("failed cycle must not count as completed")
	}

	// The loop re-arms and keeps going after an error.
	waitFor(t, "retry timer armed", clock.armed)
	clock.Fire()
	waitFor(t, "retry cycle", func() bool { return runner.callCount() == 2 })
}

func TestSchedulerStartTwice(t *testing.T) {
	sched := newTestScheduler(t, &stubRunner{}, newFakeClock())
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()
	if err := sched.Start(context.Background()); err == nil {
		t.Fatal("expected error starting an already-running scheduler")
	}
}
