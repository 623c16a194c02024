package testsupport

import (
	"path/filepath"
	"testing"

	"dropsort/internal/config"
	"dropsort/internal/workspace"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config backed by a unique temp workspace per test,
// with the Drop/, Sorted/, and state directories already created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Workspace = filepath.Join(base, "workspace")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	ws := workspace.Workspace{Root: builder.cfg.Paths.Workspace}
	if err := ws.Ensure(); err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	// The lock file and socket live in the log directory.
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure log directory: %v", err)
	}
	return builder.cfg
}

// WithWorkers overrides the sort worker pool size on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.Workers = n
	}
}

// WithScanInterval overrides the cycle cadence on the test config.
func WithScanInterval(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.ScanInterval = seconds
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// Workspace returns the workspace handle backing the generated config.
func Workspace(cfg *config.Config) workspace.Workspace {
	return workspace.Workspace{Root: cfg.Paths.Workspace}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.Workspace)
}
