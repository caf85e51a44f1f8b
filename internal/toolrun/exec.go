package toolrun

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// ExecRunner is the os/exec-backed Runner used by the real pipeline.
// Commands inherit the process environment, so overrides applied before a
// step are visible to it and to its own subprocesses.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner wired to the process's own streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the invocation and blocks until the command exits. Stderr is
// streamed through and also retained, so a failing command's diagnostics can
// travel with the returned *ExitError.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	if len(inv.Argv) == 0 {
		return Result{}, errors.New("toolrun: empty argv")
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdin = os.Stdin

	var stdout bytes.Buffer
	if inv.CaptureStdout {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = r.Stdout
	}

	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, &ExitError{
				Argv:   inv.Argv,
				Code:   exitErr.ExitCode(),
				Output: stderr.String(),
			}
		}
		return Result{}, errors.Wrapf(err, "failed to start %q", inv.Argv[0])
	}

	return Result{Stdout: stdout.String()}, nil
}
