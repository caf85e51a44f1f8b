// Package config holds the format-agnostic configuration model: the per-run
// Settings parsed from CLI flags and the pipeline Manifest loaded from disk.
// Format-specific parsing lives behind the Loader interface so the rest of
// the application never touches HCL directly.
package config
