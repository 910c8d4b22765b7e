// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"mudpatch.dev/mudpatch/internal/git"
)

// CompleteRefs returns the local branch and tag names of the repository at
// repoPath, for cobra.ValidArgsFunction
func CompleteRefs(cmd *cobra.Command, repoPath string) ([]string, cobra.ShellCompDirective) {
	repo, err := git.OpenRepository(repoPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := repo.LocalBranches(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	tags, err := repo.Tags(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	names := make([]string, 0, len(branches)+len(tags))
	for _, ref := range branches {
		names = append(names, ref.Name)
	}
	for _, ref := range tags {
		names = append(names, ref.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
