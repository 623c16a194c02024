// Package daemon ties the scheduler, drop watcher, history journal, and
// notifier into a single background service guarded by a file lock so only
// one instance sorts a workspace at a time.
package daemon
