// Package create creates the output branch that patch branches are merged into.
package create

import (
	"context"
	"fmt"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/refs"
)

// OutputBranch creates a local branch called outputName at the commit of
// base, a local branch or tag. The new branch is not checked out.
//
// It fails with *errors.UnknownReferenceError when base does not exist
// locally and with *errors.BranchExistsError when outputName is taken; in
// both cases the repository is left untouched.
func OutputBranch(ctx context.Context, repo git.Repo, sink output.Sink, base, outputName string) (*refs.Reference, error) {
	sink.Info("Creating new branch %s based on %s", output.ColorBranchName(outputName), output.ColorBranchName(base))

	resolver := refs.NewResolver(repo, sink)

	baseRef, err := resolver.ResolveLocal(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base reference %s: %w", base, err)
	}
	if baseRef == nil {
		err := mudpatcherrors.NewUnknownReferenceError(base, repo.Root())
		sink.Error("%v", err)
		return nil, err
	}
	sink.Debug("Base reference resolved to %s", baseRef)

	existing, err := resolver.LocalBranch(ctx, outputName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing branch %s: %w", outputName, err)
	}
	if existing != nil {
		err := mudpatcherrors.NewBranchExistsError(outputName)
		sink.Error("%v", err)
		return nil, err
	}

	if err := repo.CreateBranch(ctx, outputName, baseRef.Commit()); err != nil {
		return nil, err
	}

	return refs.NewReference(refs.KindLocalBranch, git.Ref{
		Name:     outputName,
		FullName: "refs/heads/" + outputName,
		Hash:     baseRef.Commit(),
	}), nil
}
