package sorter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"dropsort/internal/categories"
	"dropsort/internal/config"
	"dropsort/internal/faults"
	"dropsort/internal/fileutil"
	"dropsort/internal/history"
	"dropsort/internal/logging"
	"dropsort/internal/notifications"
)

// CategorySource supplies the extension mapping for a cycle. The mapping is
// re-read on every invocation so edits to the user overlay take effect on
// the next cycle without a restart.
type CategorySource interface {
	Load() (categories.Mapping, error)
	Fallback() string
}

// Recorder persists cycle outcomes to the history journal.
type Recorder interface {
	RecordCycle(ctx context.Context, rec history.CycleRecord) error
}

// Engine relocates drop-directory entries into category subfolders.
type Engine struct {
	cfg      *config.Config
	source   CategorySource
	recorder Recorder
	notifier notifications.Service
	logger   *slog.Logger
}

// NewEngine constructs the sort engine using default dependencies.
func NewEngine(cfg *config.Config, source CategorySource, logger *slog.Logger) *Engine {
	return NewEngineWithDependencies(cfg, source, nil, notifications.NewService(cfg), logger)
}

// NewEngineWithDependencies allows injecting collaborators (used in tests and
// by the daemon, which shares one history store across subsystems).
func NewEngineWithDependencies(cfg *config.Config, source CategorySource, recorder Recorder, notifier notifications.Service, logger *slog.Logger) *Engine {
	engineLogger := logger
	if engineLogger != nil {
		engineLogger = engineLogger.With(logging.String(logging.FieldComponent, "sorter"))
	} else {
		engineLogger = logging.NewNop()
	}
	return &Engine{cfg: cfg, source: source, recorder: recorder, notifier: notifier, logger: engineLogger}
}

// SortFolder runs one sort cycle: it enumerates the top-level entries of
// srcDir, classifies them, and moves each into the matching category
// subfolder of dstDir. Per-file failures are collected in the result rather
// than aborting the cycle; only structural problems (unreadable mapping,
// inaccessible source directory) produce a non-nil error.
func (e *Engine) SortFolder(ctx context.Context, srcDir, dstDir string, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	cycleID := uuid.NewString()
	ctx = logging.WithCycleID(ctx, cycleID)
	logger := logging.WithContext(ctx, e.logger)
	if progress == nil {
		progress = func(int, int) {}
	}

	mapping, err := e.source.Load()
	if err != nil {
		return nil, err
	}
	fallback := e.source.Fallback()

	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, faults.Wrap(faults.ErrDirectoryAccess, "sorter", "scan", "stat drop directory", err)
	}
	if !info.IsDir() {
		return nil, faults.Wrap(faults.ErrDirectoryAccess, "sorter", "scan", srcDir+" is not a directory", nil)
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, faults.Wrap(faults.ErrDirectoryAccess, "sorter", "scan", "read drop directory", err)
	}

	plan := buildPlan(srcDir, entries, mapping, fallback, logger)
	result := &Result{
		CycleID:     cycleID,
		StartedAt:   start,
		Planned:     len(plan.Items),
		PerCategory: make(map[string]int),
	}

	total := len(plan.Items)
	if total == 0 {
		progress(0, 0)
		result.Duration = time.Since(start)
		e.finalize(ctx, logger, result)
		return result, nil
	}

	logger.Info("starting sort cycle",
		logging.Int("planned", total),
		logging.Int("skipped", plan.Skipped),
		logging.String(logging.FieldPath, srcDir),
	)

	// Destination directories are created before any move so a worker never
	// races directory creation.
	dirErrs := make(map[string]error)
	for _, category := range sortedKeys(plan.Destinations) {
		if mkErr := fileutil.EnsureDir(filepath.Join(dstDir, category)); mkErr != nil {
			dirErrs[category] = faults.Wrap(faults.ErrDirectoryAccess, "sorter", "prepare", "create category directory", mkErr)
			logger.Warn("cannot create category directory",
				logging.String(logging.FieldCategory, category),
				logging.Error(mkErr),
			)
		}
	}

	type moveOutcome struct {
		item planItem
		err  error
	}
	jobs := make(chan planItem)
	outcomes := make(chan moveOutcome)

	var wg sync.WaitGroup
	for range e.workerCount() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				err := dirErrs[item.Category]
				if err == nil {
					err = fileutil.MoveEntry(item.Source, filepath.Join(dstDir, item.Category, item.Name))
				}
				outcomes <- moveOutcome{item: item, err: err}
			}
		}()
	}
	go func() {
		for _, item := range plan.Items {
			jobs <- item
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		if outcome.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, FileError{
				Path:     outcome.item.Source,
				Category: outcome.item.Category,
				Err:      outcome.err,
			})
			logger.Warn("move failed",
				logging.String(logging.FieldPath, outcome.item.Source),
				logging.String(logging.FieldCategory, outcome.item.Category),
				logging.Error(outcome.err),
			)
		} else {
			result.Moved++
			result.PerCategory[outcome.item.Category]++
			logger.Debug("moved entry",
				logging.String(logging.FieldPath, outcome.item.Source),
				logging.String(logging.FieldCategory, outcome.item.Category),
				logging.Bool("directory", outcome.item.IsDir),
			)
		}
		progress(completed, total)
	}

	result.Duration = time.Since(start)
	logger.Info("sort cycle complete",
		logging.Int("moved", result.Moved),
		logging.Int("failed", result.Failed),
		logging.Duration("duration", result.Duration),
	)
	e.finalize(ctx, logger, result)
	return result, nil
}

// finalize records the cycle in the history journal and publishes the
// summary notification. Both are best-effort; failures are logged and never
// affect the cycle outcome.
func (e *Engine) finalize(ctx context.Context, logger *slog.Logger, result *Result) {
	if e.recorder != nil {
		if err := e.recorder.RecordCycle(ctx, result.HistoryRecord()); err != nil {
			logger.Warn("failed to record cycle history", logging.Error(err))
		}
	}
	if e.notifier != nil && result.Planned > 0 {
		if err := e.notifier.NotifyCycleCompleted(ctx, result.Moved, result.Failed, result.Duration); err != nil {
			logger.Warn("failed to send cycle notification", logging.Error(err))
		}
	}
}

func (e *Engine) workerCount() int {
	workers := 0
	if e.cfg != nil {
		workers = e.cfg.Sorter.Workers
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
