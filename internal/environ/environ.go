// Package environ computes and applies the process-wide environment
// overrides the pipeline steps depend on. Overrides are modeled as an
// explicit value object and written as one sorted batch, so no step can
// observe a partially applied environment.
package environ

import (
	"log/slog"
	"os"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/vk/swiftpipego/internal/platform"
)

// Well-known variable names consumed by the toolchain's own subprocesses.
const (
	// SelfHostedVar marks the run as CI-driven so the toolchain resolves
	// local dependency checkouts instead of fetching.
	SelfHostedVar = "SWIFTCI_USE_LOCAL_DEPS"

	// BinDirVar carries the discovered toolchain build binary directory.
	BinDirVar = "SWIFT_BUILD_BIN_DIR"

	// SDKRootVar carries the probed SDK root, set only on hosts that need it.
	SDKRootVar = "SDKROOT"
)

// Overrides maps variable names to the values the pipeline sets before the
// first dependent step. It only ever adds or replaces variables.
type Overrides map[string]string

// Env abstracts the process environment so tests can apply overrides to an
// in-memory fake instead of mutating the test process.
type Env interface {
	Set(key, value string) error
	Environ() []string
}

// OSEnv is the Env implementation backed by the real process environment.
type OSEnv struct{}

// Set wraps os.Setenv.
func (OSEnv) Set(key, value string) error { return os.Setenv(key, value) }

// Environ wraps os.Environ.
func (OSEnv) Environ() []string { return os.Environ() }

// Build computes the full override set from the detected platform, the
// discovered toolchain binary directory, and any extra manifest-declared
// variables. Identical inputs always yield identical overrides.
func Build(desc platform.Descriptor, binDir string, extra map[string]string) Overrides {
	o := Overrides{
		SelfHostedVar: "1",
		BinDirVar:     binDir,
	}
	if desc.NeedsSDKRoot() {
		o[SDKRootVar] = desc.SDKRoot
	}
	for k, v := range extra {
		o[k] = v
	}
	return o
}

// Apply writes the whole override set to env in sorted key order. The batch
// completes before any dependent command runs; a failed write aborts the run
// because later steps would otherwise see a half-configured environment.
func (o Overrides) Apply(env Env) error {
	for _, key := range o.sortedKeys() {
		if err := env.Set(key, o[key]); err != nil {
			return errors.Wrapf(err, "failed to set %s", key)
		}
	}
	return nil
}

func (o Overrides) sortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dump logs the resulting process environment sorted by key. This is a
// diagnostics aid only and never fails the run.
func Dump(logger *slog.Logger, env Env) {
	vars := env.Environ()
	sort.Strings(vars)
	for _, v := range vars {
		logger.Debug("env", "var", v)
	}
}
