// Package pipeline drives the fixed sequence of toolchain invocations that
// makes up one CI run: discover the toolchain build path, configure the
// process environment, then execute the command steps strictly in order with
// fail-fast semantics. The first non-zero exit aborts the whole run; nothing
// is retried and nothing is rolled back.
package pipeline

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vk/swiftpipego/internal/config"
	"github.com/vk/swiftpipego/internal/ctxlog"
	"github.com/vk/swiftpipego/internal/environ"
	"github.com/vk/swiftpipego/internal/platform"
	"github.com/vk/swiftpipego/internal/toolrun"
)

// Controller owns one pipeline run. All collaborators are injected so tests
// can execute the full sequence against fakes.
type Controller struct {
	settings config.Settings
	manifest *config.Manifest
	runner   toolrun.Runner
	env      environ.Env
	probe    *platform.Probe
	workdir  Workdir
}

// New creates a Controller for a single run.
func New(
	settings config.Settings,
	manifest *config.Manifest,
	runner toolrun.Runner,
	env environ.Env,
	probe *platform.Probe,
) *Controller {
	return &Controller{
		settings: settings,
		manifest: manifest,
		runner:   runner,
		env:      env,
		probe:    probe,
		workdir:  osWorkdir{},
	}
}

// Run executes the whole pipeline. It changes into the project root for the
// duration of the run and restores the caller's working directory on every
// exit path, including failures.
func (c *Controller) Run(ctx context.Context) (err error) {
	logger := ctxlog.FromContext(ctx)

	restore, err := c.enterProjectRoot()
	if err != nil {
		return err
	}
	defer func() {
		if rerr := restore(); rerr != nil {
			logger.Warn("Failed to restore working directory.", "error", rerr)
			if err == nil {
				err = errors.Wrap(rerr, "failed to restore working directory")
			}
		}
	}()

	binDir, err := c.discoverToolchain(ctx)
	if err != nil {
		return err
	}

	desc, err := c.probe.Detect(ctx)
	if err != nil {
		return err
	}

	if err := c.configureEnvironment(ctx, desc, binDir); err != nil {
		return err
	}

	for _, step := range c.steps(desc, binDir) {
		stepLogger := logger.With("step", step.Name)

		if step.Skip != nil {
			if reason := step.Skip(); reason != "" {
				stepLogger.Info("⏭️ Skipping step.", "reason", reason)
				continue
			}
		}

		stepLogger.Info("▶️ Starting step.")
		if _, err := c.runner.Run(ctx, step.Invocation()); err != nil {
			stepLogger.Error("Step failed.", "error", err)
			return errors.Wrapf(err, "step %s failed", step.Name)
		}
		stepLogger.Info("✅ Finished step.")
	}

	return nil
}

// discoverToolchain asks the toolchain for its build binary path for the
// requested profile. Everything after this depends on the result, so a
// failure or an empty path aborts the run before any build or test step.
func (c *Controller) discoverToolchain(ctx context.Context) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering toolchain build path.", "profile", c.settings.Profile)

	res, err := c.runner.Run(ctx, toolrun.Invocation{
		Argv:          []string{c.manifest.Toolchain, "build", "--show-bin-path", "-c", c.settings.Profile},
		CaptureStdout: true,
	})
	if err != nil {
		return "", errors.Wrap(err, "toolchain discovery failed")
	}

	binDir := strings.TrimSpace(res.Stdout)
	if binDir == "" {
		return "", errors.New("toolchain discovery returned an empty build path")
	}

	logger.Debug("Toolchain build path discovered.", "bin_dir", binDir)
	return binDir, nil
}

// configureEnvironment builds the override set and applies it as one batch
// before the first dependent step runs.
func (c *Controller) configureEnvironment(ctx context.Context, desc platform.Descriptor, binDir string) error {
	logger := ctxlog.FromContext(ctx)

	overrides := environ.Build(desc, binDir, c.manifest.ExtraEnv)
	if err := overrides.Apply(c.env); err != nil {
		return errors.Wrap(err, "failed to configure environment")
	}
	logger.Debug("Environment overrides applied.", "count", len(overrides))

	if c.settings.Verbose {
		environ.Dump(logger, c.env)
	}
	return nil
}

// steps returns the ordered command step sequence for this run. Conditional
// behavior is expressed through each step's Skip predicate and argument
// builder; the order itself never changes.
func (c *Controller) steps(desc platform.Descriptor, binDir string) []Step {
	tc := c.manifest.Toolchain

	skipTests := func() string {
		if desc.TestsDisabled() {
			return "tests are disabled on this host family"
		}
		return ""
	}

	return []Step{
		{
			Name: StepVersion,
			Invocation: func() toolrun.Invocation {
				return toolrun.Invocation{Argv: []string{tc, "--version"}}
			},
		},
		{
			Name: StepUpdate,
			Invocation: func() toolrun.Invocation {
				return toolrun.Invocation{Argv: []string{tc, "package", "update"}}
			},
		},
		{
			Name: StepBuild,
			Invocation: func() toolrun.Invocation {
				argv := []string{tc, "build", "-c", c.settings.Profile}
				argv = append(argv, desc.ExtraBuildFlags()...)
				return toolrun.Invocation{Argv: argv}
			},
		},
		{
			Name: StepTest,
			Skip: skipTests,
			Invocation: func() toolrun.Invocation {
				argv := []string{tc, "test", "-c", c.settings.Profile, "--parallel"}
				if c.settings.SwiftTesting {
					argv = append(argv, "--enable-swift-testing")
				}
				if c.settings.XCTest {
					argv = append(argv, "--enable-xctest")
				}
				return toolrun.Invocation{Argv: argv}
			},
		},
		{
			Name: StepIntegrationUpdate,
			Skip: skipTests,
			Invocation: func() toolrun.Invocation {
				return toolrun.Invocation{
					Argv: []string{tc, "package", "--package-path", c.manifest.IntegrationPath, "update"},
				}
			},
		},
		{
			Name: StepIntegrationTest,
			Skip: skipTests,
			Invocation: func() toolrun.Invocation {
				argv := []string{tc, "test", "--package-path", c.manifest.IntegrationPath, "--parallel"}
				argv = append(argv, desc.ExtraBuildFlags()...)
				return toolrun.Invocation{Argv: argv}
			},
		},
		{
			Name: StepBootstrap,
			Skip: func() string {
				if desc.Family != platform.FamilyDarwin {
					return "bootstrap build only runs on darwin hosts"
				}
				return ""
			},
			Invocation: func() toolrun.Invocation {
				return toolrun.Invocation{
					Argv: []string{
						c.manifest.BootstrapScript,
						"--release",
						"--cross-compile-target", c.manifest.CrossCompileTarget,
						"--skip-rebootstrap",
						"--toolchain-bin-dir", binDir,
					},
				}
			},
		},
	}
}
