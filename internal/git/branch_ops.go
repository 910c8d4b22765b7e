package git

import (
	"context"
	"fmt"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
)

// Checkout checks out an existing branch
func (r *Repository) Checkout(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", branchName, "--")
	if err != nil {
		return mudpatcherrors.NewCheckoutError(branchName, err)
	}
	return nil
}

// DeleteBranch force deletes a branch
func (r *Repository) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// Merge merges refName into the current checkout and returns git's output.
// A failed merge is reported as a *errors.MergeConflictError listing the
// unmerged paths, with the underlying git error preserved.
func (r *Repository) Merge(ctx context.Context, refName string) (string, error) {
	output, err := r.runner.Run(ctx, "merge", "--no-edit", refName)
	if err != nil {
		// The file list is diagnostic only; failing to read it must not hide the merge error.
		files, _ := r.ConflictingFiles(ctx)
		return "", mudpatcherrors.NewMergeConflictError("", refName, files, err)
	}
	return output, nil
}

// MergeAbort aborts an in-progress merge
func (r *Repository) MergeAbort(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "merge", "--abort")
	if err != nil {
		return fmt.Errorf("merge abort failed: %w", err)
	}
	return nil
}

// MergeInProgress reports whether MERGE_HEAD exists
func (r *Repository) MergeInProgress(ctx context.Context) (bool, error) {
	_, err := r.runner.Run(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to check for an in-progress merge: %w", err)
}

// ConflictingFiles returns the paths git reports as unmerged
func (r *Repository) ConflictingFiles(ctx context.Context) ([]string, error) {
	files, err := r.runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to get conflicting files: %w", err)
	}
	return files, nil
}
