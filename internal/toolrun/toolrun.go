// Package toolrun executes external toolchain commands. It is the only place
// in the codebase that spawns subprocesses; everything above it works against
// the Runner interface so tests never touch a real toolchain.
package toolrun

import (
	"context"
	"fmt"
	"strings"
)

// Invocation describes a single external command execution request.
type Invocation struct {
	// Argv is the full command line, executable first. Must not be empty.
	Argv []string

	// Dir is the working directory for the command. Empty means "inherit".
	Dir string

	// CaptureStdout redirects the command's stdout into Result.Stdout
	// instead of streaming it to the runner's output writer.
	CaptureStdout bool
}

// Result holds the observable outcome of a successful invocation.
type Result struct {
	// Stdout is populated only when Invocation.CaptureStdout was set.
	Stdout string
}

// Runner executes a single external command and blocks until it exits.
// A non-zero exit is reported as an error (usually *ExitError).
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExitError reports a command that ran to completion but exited non-zero.
// The captured diagnostic output travels with the error so the failure
// surfaces with context at the top of the run.
type ExitError struct {
	Argv   []string
	Code   int
	Output string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", strings.Join(e.Argv, " "), e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}
