package config

import "strings"

// normalize expands tilde paths and trims whitespace so downstream code can
// use fields verbatim.
func (c *Config) normalize() error {
	var err error
	if c.Paths.Workspace, err = expandOptional(c.Paths.Workspace); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandOptional(c.Paths.LogDir); err != nil {
		return err
	}

	c.Sorter.FallbackCategory = strings.TrimSpace(c.Sorter.FallbackCategory)
	if c.Sorter.FallbackCategory == "" {
		c.Sorter.FallbackCategory = defaultFallbackCategory
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandOptional(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	return expandPath(path)
}
