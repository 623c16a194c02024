package ipc

import "time"

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/scheduler status information.
type StatusResponse struct {
	Running         bool      `json:"running"`
	State           string    `json:"state"`
	CyclesCompleted int       `json:"cycles_completed"`
	LastCycleAt     time.Time `json:"last_cycle_at"`
	LastMoved       int       `json:"last_moved"`
	LastFailed      int       `json:"last_failed"`
	LastError       string    `json:"last_error"`
	NextDue         time.Time `json:"next_due"`
	WorkspaceRoot   string    `json:"workspace_root"`
	LockPath        string    `json:"lock_path"`
	HistoryDBPath   string    `json:"history_db_path"`
	WatcherActive   bool      `json:"watcher_active"`
	PID             int       `json:"pid"`
}

// SortNowRequest triggers an immediate sort cycle.
type SortNowRequest struct{}

// SortNowResponse reports whether a cycle was triggered.
type SortNowResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// HistoryRequest fetches recent cycle records.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// FailureDetail describes one per-file failure within a cycle.
type FailureDetail struct {
	Path     string `json:"path"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Reason   string `json:"reason"`
}

// CycleSummary describes one recorded sort cycle.
type CycleSummary struct {
	ID           string          `json:"id"`
	StartedAt    time.Time       `json:"started_at"`
	DurationMS   int64           `json:"duration_ms"`
	Planned      int             `json:"planned"`
	Moved        int             `json:"moved"`
	Failed       int             `json:"failed"`
	ErrorSummary string          `json:"error_summary"`
	Failures     []FailureDetail `json:"failures,omitempty"`
}

// HistoryResponse contains recent cycles, newest first, plus lifetime
// totals.
type HistoryResponse struct {
	Cycles      []CycleSummary `json:"cycles"`
	TotalCycles int            `json:"total_cycles"`
	TotalMoved  int            `json:"total_moved"`
	TotalFailed int            `json:"total_failed"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
