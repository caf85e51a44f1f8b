// SPDX-License-Identifier: MIT
//
// Package schema defines the HCL-facing structure of the pipeline manifest.
// Fields stay close to the raw file format; translation into the agnostic
// config model happens in the hcl package.
package schema

import "github.com/hashicorp/hcl/v2"

// File represents the top-level structure of a manifest file for decoding.
type File struct {
	Pipelines []*Pipeline `hcl:"pipeline,block"`
}

// Pipeline represents a single `pipeline "<name>" {}` block. All attributes
// are optional; absent ones fall back to the built-in defaults.
//
// Env stays a raw hcl.Expression so values can reference evaluation
// variables like `profile` and `os`; it is resolved at load time, not here.
type Pipeline struct {
	Name string `hcl:"name,label"`

	Toolchain          *string `hcl:"toolchain,optional"`
	ProjectRoot        *string `hcl:"project,optional"`
	IntegrationPath    *string `hcl:"integration_path,optional"`
	BootstrapScript    *string `hcl:"bootstrap_script,optional"`
	CrossCompileTarget *string `hcl:"cross_compile_target,optional"`

	Env hcl.Expression `hcl:"env,optional"`
}
