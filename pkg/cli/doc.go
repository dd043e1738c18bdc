// Package cli holds the command-line plumbing shared by the akao
// subcommands: result formatters, progress reporting, signal-aware
// contexts, and the error types commands return.
package cli
