package pipeline

import (
	"os"

	"github.com/cockroachdb/errors"
)

// Workdir abstracts process working-directory changes so tests can verify
// the scoped enter/restore behavior without moving the test process around.
type Workdir interface {
	Getwd() (string, error)
	Chdir(dir string) error
}

// osWorkdir is the real-process Workdir implementation.
type osWorkdir struct{}

func (osWorkdir) Getwd() (string, error) { return os.Getwd() }
func (osWorkdir) Chdir(dir string) error { return os.Chdir(dir) }

// enterProjectRoot changes into the manifest's project root and returns the
// restore function the caller must run on every exit path.
func (c *Controller) enterProjectRoot() (func() error, error) {
	prev, err := c.workdir.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read working directory")
	}
	if err := c.workdir.Chdir(c.manifest.ProjectRoot); err != nil {
		return nil, errors.Wrapf(err, "failed to enter project root %s", c.manifest.ProjectRoot)
	}
	return func() error { return c.workdir.Chdir(prev) }, nil
}
