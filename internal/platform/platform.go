// Package platform detects the host OS family once per run and derives the
// platform-specific paths and flags the pipeline steps branch on. All
// branching downstream consumes the immutable Descriptor; nothing re-probes
// the host.
package platform

import (
	"context"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vk/swiftpipego/internal/ctxlog"
	"github.com/vk/swiftpipego/internal/toolrun"
)

// Family is the closed set of host OS families the pipeline distinguishes.
type Family string

const (
	// FamilyDarwin hosts need an SDK root probed into the environment and
	// run the extra bootstrap build after the main pipeline.
	FamilyDarwin Family = "darwin"

	// FamilyWindows hosts skip the whole test step class due to known
	// test-runner hangs.
	FamilyWindows Family = "windows"

	// FamilyUnix covers every other supported host.
	FamilyUnix Family = "unix"
)

// FamilyForGOOS maps a GOOS value onto the pipeline's OS family set.
func FamilyForGOOS(goos string) Family {
	switch goos {
	case "darwin":
		return FamilyDarwin
	case "windows":
		return FamilyWindows
	default:
		return FamilyUnix
	}
}

// Descriptor is the immutable result of host detection. It is computed once
// and passed by value to every consumer.
type Descriptor struct {
	Family  Family
	SDKRoot string
}

// NeedsSDKRoot reports whether the host family requires an SDK root in the
// environment of every toolchain subprocess.
func (d Descriptor) NeedsSDKRoot() bool {
	return d.Family == FamilyDarwin
}

// TestsDisabled reports whether the test step class is skipped on this host.
// Windows test runs hang intermittently, so the whole class is disabled
// there rather than individual cases.
func (d Descriptor) TestsDisabled() bool {
	return d.Family == FamilyWindows
}

// ExtraBuildFlags returns the extra flags appended to build and integration
// test invocations on this host. On darwin this silences the benign ld64
// duplicate-libraries diagnostic; everywhere else the slice is empty.
func (d Descriptor) ExtraBuildFlags() []string {
	if d.Family == FamilyDarwin {
		return []string{"-Xlinker", "-no_warn_duplicate_libraries"}
	}
	return nil
}

// sdkProbeArgv is the read-only introspection command used to resolve the
// SDK root. It exists only on darwin hosts and must not run elsewhere.
var sdkProbeArgv = []string{"xcrun", "--show-sdk-path", "--sdk", "macosx"}

// Probe detects the host platform. GOOS is a field so tests can pin the
// family without running on that OS; the runner is injected so tests can
// count SDK probe invocations.
type Probe struct {
	GOOS   string
	Runner toolrun.Runner
}

// NewProbe creates a Probe for the current host.
func NewProbe(runner toolrun.Runner) *Probe {
	return &Probe{GOOS: runtime.GOOS, Runner: runner}
}

// Detect computes the Descriptor for the host. The SDK probe command is
// invoked if and only if the family requires an SDK root; a probe failure is
// fatal because continuing without a resolved SDK root would fail later in a
// far less diagnosable way.
func (p *Probe) Detect(ctx context.Context) (Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	desc := Descriptor{Family: FamilyForGOOS(p.GOOS)}
	logger.Debug("Host platform detected.", "goos", p.GOOS, "family", desc.Family)

	if !desc.NeedsSDKRoot() {
		return desc, nil
	}

	res, err := p.Runner.Run(ctx, toolrun.Invocation{
		Argv:          sdkProbeArgv,
		CaptureStdout: true,
	})
	if err != nil {
		return Descriptor{}, errors.Wrap(err, "failed to resolve SDK root")
	}

	desc.SDKRoot = strings.TrimSpace(res.Stdout)
	if desc.SDKRoot == "" {
		return Descriptor{}, errors.New("SDK root probe returned an empty path")
	}

	logger.Debug("SDK root resolved.", "sdk_root", desc.SDKRoot)
	return desc, nil
}
