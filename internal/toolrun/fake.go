package toolrun

import (
	"context"
	"strings"
	"sync"
)

// FakeRunner is an in-memory Runner for tests. It records every invocation
// and can be scripted to return canned stdout or fail when a command line
// contains a given marker. It is safe for concurrent use, although the
// pipeline itself only ever calls it sequentially.
type FakeRunner struct {
	mu sync.Mutex

	// StdoutFor maps a substring of the joined argv to the stdout the fake
	// should produce for matching captured invocations.
	StdoutFor map[string]string

	// FailOn is a substring of the joined argv; any matching invocation
	// fails with *ExitError carrying FailCode.
	FailOn   string
	FailCode int

	invocations []Invocation
}

// NewFakeRunner creates a FakeRunner that succeeds on everything.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{StdoutFor: map[string]string{}}
}

// Run records the invocation and replays the scripted behavior.
func (r *FakeRunner) Run(_ context.Context, inv Invocation) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.invocations = append(r.invocations, inv)

	joined := strings.Join(inv.Argv, " ")
	if r.FailOn != "" && strings.Contains(joined, r.FailOn) {
		code := r.FailCode
		if code == 0 {
			code = 1
		}
		return Result{}, &ExitError{Argv: inv.Argv, Code: code, Output: "scripted failure"}
	}

	if inv.CaptureStdout {
		for marker, out := range r.StdoutFor {
			if strings.Contains(joined, marker) {
				return Result{Stdout: out}, nil
			}
		}
	}

	return Result{}, nil
}

// Invocations returns a copy of everything executed so far, in order.
func (r *FakeRunner) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invocation, len(r.invocations))
	copy(out, r.invocations)
	return out
}

// CommandLines renders each recorded invocation as a single joined string,
// which keeps assertions on argument order readable.
func (r *FakeRunner) CommandLines() []string {
	invs := r.Invocations()
	lines := make([]string, len(invs))
	for i, inv := range invs {
		lines[i] = strings.Join(inv.Argv, " ")
	}
	return lines
}

// CountContaining reports how many recorded command lines contain the marker.
func (r *FakeRunner) CountContaining(marker string) int {
	n := 0
	for _, line := range r.CommandLines() {
		if strings.Contains(line, marker) {
			n++
		}
	}
	return n
}
