package app

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/vk/swiftpipego/internal/config"
	"github.com/vk/swiftpipego/internal/ctxlog"
	"github.com/vk/swiftpipego/internal/pipeline"
	"github.com/vk/swiftpipego/internal/platform"
)

// Run executes the pipeline described by the loaded configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	settings := config.Settings{
		Profile:      a.config.Profile,
		Verbose:      a.config.Verbose,
		SwiftTesting: a.config.SwiftTesting,
		XCTest:       a.config.XCTest,
	}

	probe := platform.NewProbe(a.runner)
	ctrl := pipeline.New(settings, a.manifest, a.runner, a.env, probe)

	a.logger.Info("🚀 Starting pipeline run.", "pipeline", a.manifest.Name, "profile", settings.Profile)
	if err := ctrl.Run(ctx); err != nil {
		return errors.Wrap(err, "pipeline failed")
	}
	a.logger.Info("🏁 Pipeline finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}
