package sorter

import (
	"strings"
	"time"

	"dropsort/internal/faults"
	"dropsort/internal/history"
)

// ProgressFunc receives move progress. It is invoked after each settled item
// (moved or failed) and is guaranteed a terminal call with
// completed == total, including the total == 0 case.
type ProgressFunc func(completed, total int)

// FileError captures one per-file failure within a cycle.
type FileError struct {
	Path     string
	Category string
	Err      error
}

// Result aggregates the outcome of one sort cycle.
type Result struct {
	CycleID     string
	StartedAt   time.Time
	Duration    time.Duration
	Planned     int
	Moved       int
	Failed      int
	PerCategory map[string]int
	Errors      []FileError
}

// ErrorSummary renders the per-file failures as a single human-readable
// string naming each offending path and cause.
func (r *Result) ErrorSummary() string {
	if len(r.Errors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		parts = append(parts, fe.Path+": "+fe.Err.Error())
	}
	return strings.Join(parts, "; ")
}

// HistoryRecord converts the result into a journal row.
func (r *Result) HistoryRecord() history.CycleRecord {
	rec := history.CycleRecord{
		ID:           r.CycleID,
		StartedAt:    r.StartedAt,
		Duration:     r.Duration,
		Planned:      r.Planned,
		Moved:        r.Moved,
		Failed:       r.Failed,
		ErrorSummary: r.ErrorSummary(),
	}
	for _, fe := range r.Errors {
		rec.Failures = append(rec.Failures, history.FailureRecord{
			Path:     fe.Path,
			Category: fe.Category,
			Kind:     faults.Label(fe.Err),
			Reason:   fe.Err.Error(),
		})
	}
	return rec
}
