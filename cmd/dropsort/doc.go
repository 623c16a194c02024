// Command dropsort is the CLI and daemon entry point: it manages the
// background sorting daemon over its control socket and provides local
// commands for sorting, category mapping, workspace selection, and history.
package main
