// Package config manages mudpatch configuration.
//
// Per-repository defaults for merge runs (fallback branch names, manifest
// file name, remote, cleanup) live in .git/.mudpatch_config as JSON.
// Command-line flags override them.
package config
