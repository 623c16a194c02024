// Package ipc implements the daemon control channel: JSON-RPC over a Unix
// domain socket. The CLI is the only intended client; the socket lives next
// to the daemon lock file in the log directory.
package ipc
