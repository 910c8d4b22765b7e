package helpers

import (
	"github.com/spf13/cobra"

	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/runtime"
)

// Run opens the repository at repoPath and provides a runtime context to a
// command's execution function
func Run(cmd *cobra.Command, repoPath string, splog output.Sink, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.Open(cmd.Context(), repoPath, splog)
	if err != nil {
		return err
	}
	return fn(ctx)
}
