// Package locate resolves the branch behind every patch record.
package locate

import (
	"context"
	"errors"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/patches"
	"mudpatch.dev/mudpatch/internal/refs"
)

// PatchBranch pairs a patch record with the reference that carries it
type PatchBranch struct {
	Patch patches.Patch
	Ref   *refs.Reference
}

// Options controls how patch branches are located
type Options struct {
	// Remote limits the remote search to one remote. Empty searches all remotes.
	Remote string
	// DryRun reports remote matches without creating local tracking branches
	DryRun bool
}

// PatchBranches resolves each patch's downstream branch, in order. Local
// branches and tags win; otherwise the branch is looked up on the remotes and
// a local tracking branch is created for it.
//
// The first patch that cannot be resolved stops the search with a
// *errors.UnknownBranchError naming the patch. Tracking branches created for
// earlier patches are kept.
func PatchBranches(ctx context.Context, repo git.Repo, sink output.Sink, list []patches.Patch, opts Options) ([]PatchBranch, error) {
	if sink == nil {
		sink = output.Discard
	}
	resolver := refs.NewResolver(repo, sink)

	located := make([]PatchBranch, 0, len(list))
	for _, p := range list {
		sink.Debug("Locating branch %s for patch %s", p.DownstreamBranch, p.Title)

		ref, err := resolver.ResolveLocal(ctx, p.DownstreamBranch)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			if opts.DryRun {
				ref, err = resolver.FindRemote(ctx, p.DownstreamBranch, opts.Remote)
			} else {
				ref, err = resolver.ResolveRemote(ctx, p.DownstreamBranch, opts.Remote)
			}
			if err != nil {
				var multi *mudpatcherrors.MultipleRemoteReferencesError
				if errors.As(err, &multi) {
					sink.Error("Branch %s for patch %s exists on more than one remote: %v",
						p.DownstreamBranch, p.Title, multi.References)
				}
				return nil, err
			}
		}
		if ref == nil {
			err := mudpatcherrors.NewUnknownBranchError(p.Title, p.DownstreamBranch)
			sink.Error("%v", err)
			return nil, err
		}

		sink.Info("Patch %s: %s", output.ColorPatchTitle(p.Title), ref)
		located = append(located, PatchBranch{Patch: p, Ref: ref})
	}
	return located, nil
}
