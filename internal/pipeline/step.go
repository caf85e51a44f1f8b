package pipeline

import "github.com/vk/swiftpipego/internal/toolrun"

// Step is one fatal-or-succeed unit of the pipeline: a named external
// invocation plus the predicate deciding whether it runs on this host. The
// sequence of steps is an explicit ordered list so tests can enumerate and
// assert on it without spawning real subprocesses.
type Step struct {
	// Name identifies the step in logs and failure messages.
	Name string

	// Skip returns a human-readable reason to skip the step, or "" to run
	// it. A nil Skip means the step always runs.
	Skip func() string

	// Invocation builds the external command for the step. It is only
	// called when the step is not skipped.
	Invocation func() toolrun.Invocation
}

// Names of the command steps, in execution order.
const (
	StepVersion           = "version"
	StepUpdate            = "update"
	StepBuild             = "build"
	StepTest              = "test"
	StepIntegrationUpdate = "integration-update"
	StepIntegrationTest   = "integration-test"
	StepBootstrap         = "bootstrap"
)
