package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.Profile)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.SwiftTesting)
	assert.False(t, cfg.XCTest)
	assert.Empty(t, cfg.ManifestPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"-profile", "release",
		"-verbose",
		"-enable-swift-testing",
		"-enable-xctest",
		"-manifest", "ci/pipeline.hcl",
		"-log-format", "text",
		"-log-level", "warn",
	}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "release", cfg.Profile)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.SwiftTesting)
	assert.True(t, cfg.XCTest)
	assert.Equal(t, "ci/pipeline.hcl", cfg.ManifestPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_PositionalManifestPath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"ci/"}, out)

	require.NoError(t, err)
	assert.Equal(t, "ci/", cfg.ManifestPath)
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_UsageErrorsExitWithCode2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--definitely-not-a-flag"}},
		{"invalid profile", []string{"-profile", "fastest"}},
		{"invalid log format", []string{"-log-format", "xml"}},
		{"invalid log level", []string{"-log-level", "loud"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.False(t, shouldExit)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "usage errors must be ExitError")
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParse_ProfileIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-profile", "Release"}, out)

	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Profile)
}
