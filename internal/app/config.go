package app

import "github.com/cockroachdb/errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Profile      string // toolchain build configuration: debug or release
	Verbose      bool   // debug logging plus full environment dump
	SwiftTesting bool   // enable the swift-testing framework on test runs
	XCTest       bool   // enable the legacy XCTest framework on test runs

	ManifestPath string // .hcl file or directory; empty means built-in defaults

	LogFormat string
	LogLevel  string
}

// NewConfig validates and returns the configuration. Validation failures
// happen before any pipeline state is entered, so a bad config never causes
// partial side effects.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Profile {
	case "debug", "release":
		// valid
	default:
		return nil, errors.Newf("invalid profile %q: must be 'debug' or 'release'", cfg.Profile)
	}

	return &cfg, nil
}
