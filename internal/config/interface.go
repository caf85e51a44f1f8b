package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads the manifest from path (a file or a directory of config
	// files) and returns the validated model. The vars map is exposed to
	// expression evaluation inside the manifest, e.g. the active build
	// profile. An empty path yields the default manifest.
	Load(ctx context.Context, path string, vars map[string]cty.Value) (*Manifest, error)
}
