// Package history journals completed sort cycles in a SQLite database under
// the workspace state directory. Each cycle stores aggregate counts plus one
// row per failed file, powering `dropsort history` and the daemon status
// output.
package history
