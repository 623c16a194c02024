// Package notifications delivers cycle events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Absence of a backend never affects sorting correctness; callers
// log delivery failures at Warn and move on.
package notifications
