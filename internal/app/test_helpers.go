package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/swiftpipego/internal/config"
	"github.com/vk/swiftpipego/internal/environ"
	"github.com/vk/swiftpipego/internal/toolrun"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// fakeEnv is an in-memory environ.Env for tests.
type fakeEnv struct {
	vars map[string]string
}

var _ environ.Env = (*fakeEnv)(nil)

func newFakeEnv() *fakeEnv {
	return &fakeEnv{vars: map[string]string{}}
}

func (e *fakeEnv) Set(key, value string) error {
	e.vars[key] = value
	return nil
}

func (e *fakeEnv) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	return out
}

// SetupAppTest creates a new app instance for system testing, wired to a
// fake runner and an in-memory environment so no subprocess runs and the
// test process environment stays untouched.
func SetupAppTest(t *testing.T, cfg *Config, loader config.Loader, runner *toolrun.FakeRunner) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"

	testApp := NewApp(logBuffer, cfg, loader)
	testApp.runner = runner
	testApp.env = newFakeEnv()

	t.Cleanup(func() {
		if os.Getenv("SWIFTPIPEGO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
