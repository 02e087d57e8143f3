// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Lcarstv is the canonical application identifier used for filesystem paths, IPC endpoint names and CLI branding.
	Lcarstv = "lcarstv"

	// Version is the current application semantic version string.
	Version = "0.1.0"
)
