// Package sorter implements the sort engine: it scans the top level of the
// drop directory, classifies each entry by extension, and relocates entries
// into category subfolders of the sorted directory using a bounded worker
// pool. Failures are collected per file so one bad entry never aborts a
// cycle.
package sorter
