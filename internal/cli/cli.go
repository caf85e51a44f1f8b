package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/swiftpipego/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Usage errors exit with code 2 before any pipeline state is entered.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("swiftpipego", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
SwiftPipeGo - A sequential CI build/test pipeline driver for Swift packages.

Usage:
  swiftpipego [options] [MANIFEST_PATH]

Arguments:
  MANIFEST_PATH
    Path to a single .hcl manifest or a directory containing .hcl files.
    Omitted: built-in defaults are used.

Options:
`)
		flagSet.PrintDefaults()
	}

	profileFlag := flagSet.String("profile", "debug", "Build profile. Options: 'debug' or 'release'.")
	verboseFlag := flagSet.Bool("verbose", false, "Enable debug logging and the full environment dump.")
	swiftTestingFlag := flagSet.Bool("enable-swift-testing", false, "Pass the swift-testing framework flag to test runs.")
	xctestFlag := flagSet.Bool("enable-xctest", false, "Pass the legacy XCTest framework flag to test runs.")
	manifestFlag := flagSet.String("manifest", "", "Path to the manifest file or directory.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	manifestPath := *manifestFlag
	if manifestPath == "" && flagSet.NArg() > 0 {
		manifestPath = flagSet.Arg(0)
	}
	slog.Debug("Manifest path determined.", "path", manifestPath)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Profile:      strings.ToLower(*profileFlag),
		Verbose:      *verboseFlag,
		SwiftTesting: *swiftTestingFlag,
		XCTest:       *xctestFlag,
		ManifestPath: manifestPath,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
