package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerHoistsComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("cycle finished", String(FieldComponent, "sorter"), Int("moved", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO sorter: cycle finished") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "moved=3") {
		t.Fatalf("missing attr in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be hoisted, got %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Warn("move failed", String(FieldPath, "/tmp/My Files/report.pdf"))

	if !strings.Contains(buf.String(), `path="/tmp/My Files/report.pdf"`) {
		t.Fatalf("expected quoted path, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithContextAddsCycleID(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := WithCycleID(context.Background(), "cycle-123")
	WithContext(ctx, logger).Info("scan started")

	if !strings.Contains(buf.String(), "cycle_id=cycle-123") {
		t.Fatalf("expected cycle_id attr, got %q", buf.String())
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}
