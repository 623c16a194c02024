// Package scheduler runs sort cycles on a fixed cadence. It owns the
// idle/active/running lifecycle, coalesces kick requests from the watcher
// and the control socket, and guarantees that cycles never overlap and that
// stop requests only take effect at a cycle boundary.
package scheduler
