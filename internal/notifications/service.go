package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dropsort/internal/config"
)

const userAgent = "dropsort/0.1.0"

// Service defines the notification surface exposed to the sort engine and
// scheduler. Implementations must be safe for concurrent use.
type Service interface {
	NotifyCycleCompleted(ctx context.Context, moved, failed int, duration time.Duration) error
	NotifyCycleFailed(ctx context.Context, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		cycleSummary: cfg.Notifications.CycleSummary,
		errors:       cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	cycleSummary bool
	errors       bool
}

func (n *ntfyService) NotifyCycleCompleted(ctx context.Context, moved, failed int, duration time.Duration) error {
	if !n.cycleSummary {
		return nil
	}
	duration = duration.Round(time.Millisecond)

	var title, message string
	if failed == 0 {
		title = "dropsort - Cycle Complete"
		message = fmt.Sprintf("Sorted %d item(s) in %s", moved, duration)
	} else {
		title = "dropsort - Cycle Complete (with errors)"
		message = fmt.Sprintf("Sorted %d item(s), %d failed in %s", moved, failed, duration)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"dropsort", "cycle", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCycleFailed(ctx context.Context, err error) error {
	if !n.errors {
		return nil
	}
	message := "Sort cycle failed"
	if err != nil {
		message = fmt.Sprintf("Sort cycle failed: %s", strings.TrimSpace(err.Error()))
	}
	data := payload{
		title:    "dropsort - Error",
		message:  message,
		tags:     []string{"dropsort", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "dropsort - Test",
		message:  "Notification system test",
		tags:     []string{"dropsort", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyCycleCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyCycleFailed(context.Context, error) error                      { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
