package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/vk/swiftpipego/internal/app"
	"github.com/vk/swiftpipego/internal/cli"
	"github.com/vk/swiftpipego/internal/hcl"
	"github.com/vk/swiftpipego/internal/toolrun"
)

// main is the entrypoint for the swiftpipego application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. A failing step's exit code is propagated as the process exit
// status via cli.ExitError.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors (e.g. an unreadable
	// manifest), so we recover here to provide a clean exit to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	pipelineApp := app.NewApp(outW, appConfig, loader)

	if err := pipelineApp.Run(context.Background()); err != nil {
		var stepErr *toolrun.ExitError
		if errors.As(err, &stepErr) {
			return &cli.ExitError{Code: stepErr.Code, Message: err.Error()}
		}
		return err
	}
	return nil
}
