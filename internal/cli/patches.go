package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"mudpatch.dev/mudpatch/internal/cli/helpers"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/patches"
	"mudpatch.dev/mudpatch/internal/refs"
	"mudpatch.dev/mudpatch/internal/runtime"
	"mudpatch.dev/mudpatch/internal/utils"
)

// newPatchesCmd creates the patches command
func newPatchesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patches",
		Short: "Inspect and edit patch configuration files",
	}

	cmd.AddCommand(newPatchesCheckCmd(a))
	cmd.AddCommand(newPatchesAddCmd(a))

	return cmd
}

// newPatchesCheckCmd creates the patches check command
func newPatchesCheckCmd(a *app) *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "check <patches>",
		Short: "Validate a patch configuration file and resolve its branches",
		Long: `Validate a patch configuration file (every patch has a title and a
downstream branch, titles are unique) and report where each patch branch
resolves in the repository. Nothing is created or modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			splog := a.sink()

			list, err := patches.Load(args[0])
			if err != nil {
				return err
			}
			splog.Info("%s is valid: %d patches", args[0], len(list))

			return helpers.Run(cmd, repoPath, splog, func(ctx *runtime.Context) error {
				resolver := refs.NewResolver(ctx.Repo, output.Discard)
				missing := 0
				for i, p := range list {
					ref, err := resolver.ResolveLocal(ctx, p.DownstreamBranch)
					if err == nil && ref == nil {
						ref, err = resolver.FindRemote(ctx, p.DownstreamBranch, ctx.Config.GetRemote())
					}
					switch {
					case err != nil:
						missing++
						splog.Error("%d. %s: %v", i+1, p.Title, err)
					case ref == nil:
						missing++
						splog.Error("%d. %s: branch %s not found", i+1, p.Title, p.DownstreamBranch)
					default:
						splog.Info("%d. %s: %s%s", i+1, output.ColorPatchTitle(p.Title), ref, tracking(ctx, ref))
					}
				}
				if missing > 0 {
					return fmt.Errorf("%d of %d patch branches could not be resolved", missing, len(list))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "Repository to resolve patch branches in")

	return cmd
}

// tracking describes the upstream of a local branch, or returns ""
func tracking(ctx *runtime.Context, ref *refs.Reference) string {
	if !ref.IsBranch() {
		return ""
	}
	remote, merge, err := ctx.Repo.Upstream(ctx, ref.Name)
	if err != nil {
		ctx.Splog.Debug("Unable to read upstream of %s: %v", ref.Name, err)
		return ""
	}
	if remote == "" {
		return ""
	}
	return fmt.Sprintf(", tracking %s/%s", remote, strings.TrimPrefix(merge, "refs/heads/"))
}

// newPatchesAddCmd creates the patches add command
func newPatchesAddCmd(a *app) *cobra.Command {
	var p patches.Patch

	cmd := &cobra.Command{
		Use:   "add <patches>",
		Short: "Append a patch to a patch configuration file",
		Long: `Append a patch to the end of a patch configuration file, creating the
file if needed. Existing patches keep their order.

Fields not given as flags are prompted for when running in a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			splog := a.sink()

			if utils.IsInteractive() {
				if err := promptPatch(cmd, &p); err != nil {
					return err
				}
			}

			list, err := patches.Append(args[0], p)
			if err != nil {
				return err
			}
			splog.Info("Added patch %s (branch %s) to %s, %d patches in total",
				output.ColorPatchTitle(p.Title), output.ColorBranchName(p.DownstreamBranch), args[0], len(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Title, "title", "", "Unique patch title, for example an issue key")
	cmd.Flags().StringVar(&p.Description, "description", "", "What the patch changes")
	cmd.Flags().StringVar(&p.UpstreamPR, "upstream-pr", "", "Upstream change request the patch derives from")
	cmd.Flags().StringVar(&p.DownstreamBranch, "branch", "", "Branch carrying the patch")
	cmd.Flags().StringVar(&p.FixedVersion, "fixed-version", "", "Upstream version that contains the fix")

	return cmd
}

// promptPatch asks for every field that was not given as a flag
func promptPatch(cmd *cobra.Command, p *patches.Patch, askOpts ...survey.AskOpt) error {
	fields := []struct {
		flag     string
		message  string
		value    *string
		required bool
	}{
		{"title", "Patch title", &p.Title, true},
		{"description", "Description", &p.Description, false},
		{"upstream-pr", "Upstream pull request", &p.UpstreamPR, false},
		{"branch", "Downstream branch", &p.DownstreamBranch, true},
		{"fixed-version", "Fixed in version", &p.FixedVersion, false},
	}

	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			continue
		}
		opts := append([]survey.AskOpt{}, askOpts...)
		if f.required {
			opts = append(opts, survey.WithValidator(survey.Required))
		}
		if err := survey.AskOne(&survey.Input{Message: f.message}, f.value, opts...); err != nil {
			return fmt.Errorf("prompt canceled: %w", err)
		}
	}
	return nil
}
