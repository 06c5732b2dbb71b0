// Package config provides configuration management for the jscan runtime scanner.
package config

// Default configuration values for jscan.
const (
	// DefaultOutput is the output format used when none is specified.
	DefaultOutput = "pretty"

	// DefaultProbeTimeout is the per-probe timeout in seconds.
	DefaultProbeTimeout = 10

	// DefaultRetentionDays is the default number of days to retain scan manifests.
	DefaultRetentionDays = 30

	// DefaultWatchDebounceMS is the quiet period in milliseconds before a
	// filesystem change triggers a rescan in watch mode.
	DefaultWatchDebounceMS = 2000
)
