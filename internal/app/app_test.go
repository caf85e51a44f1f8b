package app

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/swiftpipego/internal/config"
	"github.com/vk/swiftpipego/internal/toolrun"
)

// fakeLoader implements config.Loader for tests.
type fakeLoader struct {
	manifest *config.Manifest
	err      error

	gotPath string
	gotVars map[string]cty.Value
}

func (l *fakeLoader) Load(_ context.Context, path string, vars map[string]cty.Value) (*config.Manifest, error) {
	l.gotPath = path
	l.gotVars = vars
	if l.err != nil {
		return nil, l.err
	}
	return l.manifest, nil
}

func defaultTestConfig() *Config {
	return &Config{
		Profile:   "debug",
		LogFormat: "text",
		LogLevel:  "debug",
	}
}

func scriptedRunner() *toolrun.FakeRunner {
	runner := toolrun.NewFakeRunner()
	runner.StdoutFor["--show-bin-path"] = "/workspace/.build/debug\n"
	runner.StdoutFor["--show-sdk-path"] = "/sdk/MacOSX.sdk\n"
	return runner
}

func TestNewApp_PanicsOnManifestLoadFailure(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{err: errors.New("manifest exploded")}
	logBuffer := &SafeBuffer{}

	require.Panics(t, func() {
		NewApp(logBuffer, defaultTestConfig(), loader)
	})
}

func TestNewApp_ExposesEvalVarsToLoader(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{manifest: config.DefaultManifest()}
	cfg := defaultTestConfig()
	cfg.Profile = "release"
	cfg.ManifestPath = "ci/pipeline.hcl"

	testApp, _ := SetupAppTest(t, cfg, loader, scriptedRunner())
	require.NotNil(t, testApp)

	assert.Equal(t, "ci/pipeline.hcl", loader.gotPath)
	assert.Equal(t, cty.StringVal("release"), loader.gotVars["profile"])
	assert.Contains(t, loader.gotVars, "os")
}

func TestRun_DrivesPipelineToCompletion(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{manifest: config.DefaultManifest()}
	runner := scriptedRunner()

	testApp, logBuffer := SetupAppTest(t, defaultTestConfig(), loader, runner)

	err := testApp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, runner.CountContaining("--show-bin-path"))
	assert.Equal(t, 1, runner.CountContaining("--version"))
	assert.Contains(t, logBuffer.String(), "Pipeline finished")
}

func TestRun_PropagatesStepFailure(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{manifest: config.DefaultManifest()}
	runner := scriptedRunner()
	runner.FailOn = "--version"
	runner.FailCode = 9

	testApp, _ := SetupAppTest(t, defaultTestConfig(), loader, runner)

	err := testApp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline failed")

	var exitErr *toolrun.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 9, exitErr.Code)
}
