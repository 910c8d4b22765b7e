// Package merge merges patch branches into a newly created output branch.
//
// Action is the full run: load the patch configuration, locate every patch
// branch, create the output branch, commit the manifest and Execute the
// merges. Execute on its own is the sequential merge with its recovery
// state machine.
package merge

import (
	"fmt"
	"os"

	"mudpatch.dev/mudpatch/internal/actions/create"
	"mudpatch.dev/mudpatch/internal/actions/locate"
	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/patches"
	"mudpatch.dev/mudpatch/internal/refs"
	"mudpatch.dev/mudpatch/internal/runtime"
	"mudpatch.dev/mudpatch/internal/tui"
)

// Options contains options for the merge init command
type Options struct {
	// Base is the local branch or tag the output branch starts from
	Base string
	// Output is the name of the branch to create
	Output string
	// PatchesFile is the patch configuration file
	PatchesFile string
	// Cleanup rolls back a failed merge
	Cleanup bool
	// Remote limits remote lookups of patch branches to one remote
	Remote string
	// NoManifest skips committing the patch configuration to the output branch
	NoManifest bool
	// ManifestName overrides the manifest file name
	ManifestName string
	// FallbackBranches overrides the branch names tried when rolling back
	FallbackBranches []string
	// DryRun prints the merge plan without changing the repository
	DryRun bool
	// Progress shows the interactive progress view while merging
	Progress bool
}

// Action runs a complete merge. A failed merge is returned as a
// *errors.MergeFailedError; any other error happened before merging started.
func Action(ctx *runtime.Context, opts Options) error {
	repo := ctx.Repo
	splog := ctx.Splog

	manifestName := opts.ManifestName
	if manifestName == "" {
		manifestName = ctx.Config.GetManifestFile()
	}
	fallbackBranches := opts.FallbackBranches
	if len(fallbackBranches) == 0 {
		fallbackBranches = ctx.Config.GetFallbackBranches()
	}

	splog.Info("Initializing patch branch merge")

	// 1. Load patch configuration
	list, err := patches.Load(opts.PatchesFile)
	if err != nil {
		return err
	}
	splog.Debug("Loaded %d patches from %s", len(list), opts.PatchesFile)

	if opts.DryRun {
		return dryRun(ctx, opts, list, manifestName)
	}

	// 2. Locate patch branches before touching the output branch
	located, err := locate.PatchBranches(ctx.Context, repo, splog, list, locate.Options{Remote: opts.Remote})
	if err != nil {
		return err
	}

	// 3. Create output branch
	out, err := create.OutputBranch(ctx.Context, repo, splog, opts.Base, opts.Output)
	if err != nil {
		return err
	}

	// 4. Commit manifest
	if !opts.NoManifest {
		if err := WriteManifest(ctx.Context, repo, splog, out.Name, manifestName, list); err != nil {
			splog.Error("Unable to write patch configuration file to %s: %v", out.Name, err)
			if opts.Cleanup {
				if _, rbErr := rollback(ctx.Context, repo, splog, out.Name, fallbackBranches, false); rbErr != nil {
					splog.Warn("Output branch %s may need to be removed manually", out.Name)
				}
			}
			return fmt.Errorf("failed to write patch configuration file: %w", err)
		}
	}

	// 5. Merge
	session := NewSession(out, located)
	execOpts := ExecuteOptions{
		Cleanup:          opts.Cleanup,
		FallbackBranches: fallbackBranches,
	}
	var stopProgress func()
	if opts.Progress && len(located) > 0 {
		execOpts.Reporter, stopProgress = startProgress(splog, out.Name, located)
	}
	outcome := Execute(ctx.Context, repo, splog, session, execOpts)
	if stopProgress != nil {
		stopProgress()
	}

	if outcome.Succeeded() {
		splog.Info("%s", output.ColorGreen(fmt.Sprintf("Merging of patches has completed successfully (%d merged into %s)",
			len(session.Steps), out.Name)))
		return nil
	}

	for _, r := range outcome.Recovery {
		if r.Err != nil {
			splog.Debug("recovery %s (%s): %v", r.Step, r.Detail, r.Err)
		} else {
			splog.Debug("recovery %s: %s", r.Step, r.Detail)
		}
	}

	cause := outcome.Err
	if outcome.Failure != nil && (outcome.State == StateFailedAtIndex || outcome.State == StateRolledBack) {
		cause = outcome.Failure
	}
	splog.Error("%s", output.ColorRed("Merging of patches has failed"))
	return mudpatcherrors.NewMergeFailedError(out.Name, outcome.Reason(), cause)
}

// startProgress runs the progress view in the background. The returned
// function closes the reporter and waits for the view to exit.
func startProgress(splog output.Sink, outputName string, steps []Step) (ProgressReporter, func()) {
	reporter := tui.NewChannelProgressReporter()

	descriptions := make([]string, len(steps))
	for i, step := range steps {
		descriptions[i] = fmt.Sprintf("%s (%s)", step.Patch.Title, step.Ref.QualifiedName())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		title := fmt.Sprintf("Merging into %s:", outputName)
		if err := tui.RunMergeProgress(title, descriptions, reporter.Updates(), os.Stdin, os.Stdout); err != nil {
			splog.Debug("TUI error: %v", err)
		}
		// Keep draining so the merge never blocks on a view that exited early
		for range reporter.Updates() {
		}
	}()

	return reporter, func() {
		reporter.Close()
		<-done
	}
}

// dryRun resolves everything a real run would and prints the plan. The
// repository is not modified.
func dryRun(ctx *runtime.Context, opts Options, list []patches.Patch, manifestName string) error {
	splog := ctx.Splog
	resolver := refs.NewResolver(ctx.Repo, splog)

	base, err := resolver.ResolveLocal(ctx.Context, opts.Base)
	if err != nil {
		return err
	}
	if base == nil {
		return mudpatcherrors.NewUnknownReferenceError(opts.Base, ctx.RepoRoot)
	}
	existing, err := resolver.LocalBranch(ctx.Context, opts.Output)
	if err != nil {
		return err
	}
	if existing != nil {
		return mudpatcherrors.NewBranchExistsError(opts.Output)
	}

	located, err := locate.PatchBranches(ctx.Context, ctx.Repo, splog, list, locate.Options{
		Remote: opts.Remote,
		DryRun: true,
	})
	if err != nil {
		return err
	}

	planned := refs.NewReference(refs.KindLocalBranch, git.Ref{
		Name:     opts.Output,
		FullName: "refs/heads/" + opts.Output,
		Hash:     base.Commit(),
	})
	session := NewSession(planned, located)
	splog.Info("Dry run: would create %s from %s", output.ColorBranchName(opts.Output), base)
	splog.Page(session.Describe())
	if !opts.NoManifest {
		splog.Info("Would commit %s to %s", manifestName, opts.Output)
	}
	return nil
}
