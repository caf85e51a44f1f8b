package app

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/swiftpipego/internal/config"
	"github.com/vk/swiftpipego/internal/ctxlog"
	"github.com/vk/swiftpipego/internal/environ"
	"github.com/vk/swiftpipego/internal/toolrun"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	manifest *config.Manifest

	runner toolrun.Runner
	env    environ.Env
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded,
// validated manifest. A failure to load the manifest is a fatal startup
// error and panics; main recovers it into a clean exit.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logLevel := cfg.LogLevel
	if cfg.Verbose {
		logLevel = "debug"
	}
	logger := newLogger(logLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	manifest, err := loader.Load(ctx, cfg.ManifestPath, evalVars(cfg))
	if err != nil {
		panic(errors.Wrap(err, "failed to load manifest"))
	}
	logger.Debug("Manifest loaded and translated into unified model.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		manifest: manifest,
		runner:   toolrun.NewExecRunner(),
		env:      environ.OSEnv{},
	}
}

// Manifest returns the loaded manifest. This is primarily for testing.
func (a *App) Manifest() *config.Manifest {
	return a.manifest
}

// evalVars exposes run-level values to manifest expression evaluation.
func evalVars(cfg *Config) map[string]cty.Value {
	return map[string]cty.Value{
		"profile": cty.StringVal(cfg.Profile),
		"os":      cty.StringVal(runtime.GOOS),
	}
}
