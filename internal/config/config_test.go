package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Sorter.ScanInterval != defaultScanInterval {
		t.Fatalf("scan interval = %d, want %d", cfg.Sorter.ScanInterval, defaultScanInterval)
	}
	if cfg.Sorter.FallbackCategory != "Other" {
		t.Fatalf("fallback = %q, want Other", cfg.Sorter.FallbackCategory)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "` + filepath.Join(dir, "logs") + `"

[sorter]
scan_interval = 30
workers = 2
fallback_category = "  Unsorted  "

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Sorter.ScanInterval != 30 {
		t.Fatalf("scan interval = %d", cfg.Sorter.ScanInterval)
	}
	if cfg.Sorter.FallbackCategory != "Unsorted" {
		t.Fatalf("fallback = %q, want trimmed Unsorted", cfg.Sorter.FallbackCategory)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero interval", func(c *Config) { c.Sorter.ScanInterval = 0 }, "scan_interval"},
		{"zero workers", func(c *Config) { c.Sorter.Workers = 0 }, "workers"},
		{"empty fallback", func(c *Config) { c.Sorter.FallbackCategory = "" }, "fallback_category"},
		{"bad format", func(c *Config) { c.Logging.Format = "yaml" }, "logging.format"},
		{"zero notify timeout", func(c *Config) { c.Notifications.RequestTimeout = 0 }, "request_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSocketAndLockPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.LogDir = "/tmp/dropsort-logs"
	if got := cfg.SocketPath(); got != "/tmp/dropsort-logs/dropsortd.sock" {
		t.Fatalf("socket path = %q", got)
	}
	if got := cfg.LockPath(); got != "/tmp/dropsort-logs/dropsortd.lock" {
		t.Fatalf("lock path = %q", got)
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
