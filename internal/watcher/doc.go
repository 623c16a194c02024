// Package watcher turns drop-directory filesystem events into scheduler
// kicks, debounced so a burst of drops triggers a single extra cycle. When
// filesystem notifications are unavailable the daemon degrades to the
// polling schedule alone.
package watcher
