// Package workspace manages the user-chosen root directory and its layout:
// Drop/ for incoming files, Sorted/ for categorized output, and .dropsort/
// for application state. The chosen root persists across runs via a marker
// file, and the last five choices are kept in a deduplicated
// most-recent-first list.
package workspace
