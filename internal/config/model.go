// SPDX-License-Identifier: MIT
package config

import "github.com/cockroachdb/errors"

// Build profiles form a closed set; the CLI rejects anything else before a
// Settings value is ever constructed.
const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// Settings is the immutable per-run configuration created once from CLI
// input. It is read by every downstream component and never mutated.
type Settings struct {
	// Profile selects the toolchain build configuration.
	Profile string

	// Verbose enables the full environment dump and debug logging.
	Verbose bool

	// SwiftTesting enables the swift-testing framework flag on test runs.
	SwiftTesting bool

	// XCTest enables the legacy XCTest framework flag on test runs.
	XCTest bool
}

// Manifest describes the project the pipeline drives. It is loaded once at
// startup, validated, and treated as immutable afterwards.
type Manifest struct {
	// Name labels the pipeline in logs.
	Name string

	// Toolchain is the toolchain executable invoked for every step.
	Toolchain string

	// ProjectRoot is the directory the pipeline runs in. The caller's
	// working directory is restored when the run ends.
	ProjectRoot string

	// IntegrationPath is the secondary package exercised by the
	// integration steps, relative to ProjectRoot.
	IntegrationPath string

	// BootstrapScript is the separate build entry point invoked on darwin
	// hosts after the main pipeline, relative to ProjectRoot.
	BootstrapScript string

	// CrossCompileTarget is the target tag passed to the bootstrap build.
	CrossCompileTarget string

	// ExtraEnv is merged into the environment override batch.
	ExtraEnv map[string]string
}

// DefaultManifest returns the manifest used when no file is provided.
func DefaultManifest() *Manifest {
	return &Manifest{
		Name:               "default",
		Toolchain:          "swift",
		ProjectRoot:        ".",
		IntegrationPath:    "IntegrationTests",
		BootstrapScript:    "Utilities/bootstrap",
		CrossCompileTarget: "macosx-arm64",
		ExtraEnv:           map[string]string{},
	}
}

// Validate checks the invariants every consumer of the manifest relies on.
func (m *Manifest) Validate() error {
	if m.Toolchain == "" {
		return errors.New("manifest: toolchain executable must not be empty")
	}
	if m.ProjectRoot == "" {
		return errors.New("manifest: project root must not be empty")
	}
	if m.IntegrationPath == "" {
		return errors.New("manifest: integration path must not be empty")
	}
	if m.BootstrapScript == "" {
		return errors.New("manifest: bootstrap script must not be empty")
	}
	return nil
}
