// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layered loading lives in Load: defaults -> optional file -> env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database holding event sources and ledger
	// snapshots.
	DBPath string `koanf:"db_path"`

	// Period names the active tracking period; only event sources tagged
	// with it participate in aggregation.
	Period string `koanf:"period"`

	// ActiveThreshold is the minimum total for the Active tier.
	ActiveThreshold float64 `koanf:"active_threshold"`

	// InvolvedThreshold is the minimum total for the Involved tier and the
	// promotion floor for Most Involved.
	InvolvedThreshold float64 `koanf:"involved_threshold"`

	// RecomputeIntervalSec schedules periodic ledger recomputes; 0 disables
	// the scheduler.
	RecomputeIntervalSec int `koanf:"recompute_interval_sec"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		DBPath:               "tally.db",
		Period:               "current",
		ActiveThreshold:      3,
		InvolvedThreshold:    15,
		RecomputeIntervalSec: 0,
	}
	return c
}
