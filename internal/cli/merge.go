package cli

import (
	"os"

	"github.com/spf13/cobra"

	"mudpatch.dev/mudpatch/internal/actions/merge"
	"mudpatch.dev/mudpatch/internal/cli/helpers"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/runtime"
	"mudpatch.dev/mudpatch/internal/utils"
)

// newMergeCmd creates the merge command
func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge patch branches",
	}

	cmd.AddCommand(newMergeInitCmd(a))

	return cmd
}

// newMergeInitCmd creates the merge init command
func newMergeInitCmd(a *app) *cobra.Command {
	var (
		cleanup      bool
		remote       string
		noManifest   bool
		manifestName string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "init <repo> <base> <output> <patches>",
		Short: "Create an output branch and merge every patch branch into it",
		Long: `Create the branch <output> from the local branch or tag <base> in the
repository at <repo>, commit the patch configuration file to it and merge
every patch branch listed in <patches> into it, in file order.

Patch branches missing locally are looked up on the configured remotes and a
local tracking branch is created for them.

When a merge fails the run stops. With --cleanup the merge is aborted, a
fallback branch (main, master, trunk or the first branch) is checked out and
the output branch is deleted. Without it the conflicted merge is left in
place for inspection.

Examples:
  mudpatch merge init . v2.1.0 release-2.1-patched patches.yaml
  mudpatch merge init ../fork main release-next patches.yaml --cleanup --remote upstream`,
		Args: cobra.ExactArgs(4),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return nil, cobra.ShellCompDirectiveFilterDirs
			case 1:
				return helpers.CompleteRefs(cmd, args[0])
			case 3:
				return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
			default:
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return helpers.Run(cmd, args[0], a.sink(), func(ctx *runtime.Context) error {
				opts := merge.Options{
					Base:         args[1],
					Output:       args[2],
					PatchesFile:  args[3],
					Cleanup:      ctx.Config.GetCleanup(),
					Remote:       ctx.Config.GetRemote(),
					NoManifest:   noManifest,
					ManifestName: manifestName,
					DryRun:       dryRun,
					Progress:     output.IsTerminal(os.Stdout) && utils.IsInteractive() && !a.debug,
				}
				if cmd.Flags().Changed("cleanup") {
					opts.Cleanup = cleanup
				}
				if cmd.Flags().Changed("remote") {
					opts.Remote = remote
				}
				return merge.Action(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Roll back the output branch when a merge fails")
	cmd.Flags().StringVar(&remote, "remote", "", "Only look up missing patch branches on this remote")
	cmd.Flags().BoolVar(&noManifest, "no-manifest", false, "Do not commit the patch configuration file to the output branch")
	cmd.Flags().StringVar(&manifestName, "manifest-name", "", "File name of the committed patch configuration (default patches-config.yaml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve everything and print the merge plan without changing the repository")

	return cmd
}
