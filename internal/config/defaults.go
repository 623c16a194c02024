package config

const (
	defaultLogDir             = "~/.local/share/dropsort/logs"
	defaultScanInterval       = 5
	defaultErrorRetryInterval = 5
	defaultWorkers            = 4
	defaultFallbackCategory   = "Other"
	defaultWatcherDebounceMS  = 300
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Sorter: Sorter{
			ScanInterval:       defaultScanInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			Workers:            defaultWorkers,
			FallbackCategory:   defaultFallbackCategory,
		},
		Watcher: Watcher{
			Enabled:    false,
			DebounceMS: defaultWatcherDebounceMS,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			CycleSummary:   true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
