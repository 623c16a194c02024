package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSorter(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSorter() error {
	if err := ensurePositiveMap(map[string]int{
		"sorter.scan_interval":        c.Sorter.ScanInterval,
		"sorter.error_retry_interval": c.Sorter.ErrorRetryInterval,
		"sorter.workers":              c.Sorter.Workers,
	}); err != nil {
		return err
	}
	if c.Sorter.FallbackCategory == "" {
		return errors.New("sorter.fallback_category must be set")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.Enabled && c.Watcher.DebounceMS < 0 {
		return errors.New("watcher.debounce_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
