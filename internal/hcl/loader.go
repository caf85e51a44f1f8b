// Package hcl implements config.Loader for HCL pipeline manifests.
package hcl

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/swiftpipego/internal/config"
	"github.com/vk/swiftpipego/internal/ctxlog"
	"github.com/vk/swiftpipego/internal/fsutil"
	"github.com/vk/swiftpipego/internal/schema"
)

// Loader parses HCL manifest files into the agnostic config model.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. A directory path is scanned recursively for
// .hcl files in sorted order; exactly one `pipeline` block must result
// across all parsed files.
func (l *Loader) Load(ctx context.Context, path string, vars map[string]cty.Value) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		logger.Debug("No manifest path provided, using built-in defaults.")
		return config.DefaultManifest(), nil
	}

	files, err := l.manifestFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Manifest files resolved.", "files", files)

	parser := hclparse.NewParser()
	var pipelines []*schema.Pipeline
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, errors.Wrapf(diags, "failed to parse manifest file %s", file)
		}

		var parsed schema.File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
			return nil, errors.Wrapf(diags, "failed to decode manifest file %s", file)
		}
		pipelines = append(pipelines, parsed.Pipelines...)
	}

	if len(pipelines) == 0 {
		return nil, errors.Newf("no pipeline block found in %s", path)
	}
	if len(pipelines) > 1 {
		return nil, errors.Newf("expected exactly one pipeline block in %s, found %d", path, len(pipelines))
	}

	manifest, err := l.translate(pipelines[0], vars)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Manifest loaded.", "pipeline", manifest.Name, "toolchain", manifest.Toolchain)
	return manifest, nil
}

// manifestFiles resolves the manifest path into the ordered list of files to
// parse.
func (l *Loader) manifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat manifest path %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan manifest directory %s", path)
	}
	if len(files) == 0 {
		return nil, errors.Newf("no .hcl manifest files found in %s", path)
	}
	return files, nil
}

// translate converts the HCL-specific pipeline schema into the agnostic
// manifest, applying defaults for absent attributes and resolving the env
// expression against the provided evaluation variables.
func (l *Loader) translate(p *schema.Pipeline, vars map[string]cty.Value) (*config.Manifest, error) {
	m := config.DefaultManifest()
	m.Name = p.Name

	if p.Toolchain != nil {
		m.Toolchain = *p.Toolchain
	}
	if p.ProjectRoot != nil {
		m.ProjectRoot = *p.ProjectRoot
	}
	if p.IntegrationPath != nil {
		m.IntegrationPath = *p.IntegrationPath
	}
	if p.BootstrapScript != nil {
		m.BootstrapScript = *p.BootstrapScript
	}
	if p.CrossCompileTarget != nil {
		m.CrossCompileTarget = *p.CrossCompileTarget
	}

	env, err := l.resolveEnv(p.Env, vars)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid env block in pipeline %q", p.Name)
	}
	for k, v := range env {
		m.ExtraEnv[k] = v
	}

	return m, nil
}

// resolveEnv evaluates the env attribute into a plain string map. Values may
// interpolate the evaluation variables, e.g. "cache-${profile}".
func (l *Loader) resolveEnv(expr hcl.Expression, vars map[string]cty.Value) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}

	evalCtx := &hcl.EvalContext{Variables: vars}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, errors.Newf("env must be a map of strings, got %s", val.Type().FriendlyName())
	}

	env := make(map[string]string)
	for key, elem := range val.AsValueMap() {
		if elem.Type() != cty.String || elem.IsNull() {
			return nil, errors.Newf("env value for %q must be a string", key)
		}
		env[key] = elem.AsString()
	}
	return env, nil
}
