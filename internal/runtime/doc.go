// Package runtime provides the execution context for mudpatch commands.
//
// It bundles the shared dependencies actions need: the repository handle,
// the diagnostic sink, the repository root and its configuration.
package runtime
