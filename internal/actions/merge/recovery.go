package merge

import (
	"context"

	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/refs"
)

// RecoveryStep identifies one step of rolling back a failed merge
type RecoveryStep string

const (
	// RecoveryAbortMerge aborts the in-progress merge
	RecoveryAbortMerge RecoveryStep = "ABORT_MERGE"
	// RecoverySelectFallback picks the branch to return to
	RecoverySelectFallback RecoveryStep = "SELECT_FALLBACK"
	// RecoveryCheckoutFallback checks out the fallback branch
	RecoveryCheckoutFallback RecoveryStep = "CHECKOUT_FALLBACK"
	// RecoveryDeleteOutput force deletes the output branch
	RecoveryDeleteOutput RecoveryStep = "DELETE_OUTPUT"
)

// RecoveryResult records how a recovery step went
type RecoveryResult struct {
	Step RecoveryStep
	// Detail is the branch the step acted on, or why it did nothing
	Detail string
	Err    error
}

// rollback returns the repository to a fallback branch and deletes the
// output branch. Steps run in order and stop at the first failure, which is
// returned alongside the results so far. Nothing is retried.
func rollback(ctx context.Context, repo git.Repo, sink output.Sink, outputName string, fallbackNames []string, abortMerge bool) ([]RecoveryResult, error) {
	sink.Info("Cleaning up:")
	var results []RecoveryResult

	fail := func(step RecoveryStep, detail string, err error) ([]RecoveryResult, error) {
		sink.Error("Cleanup step %s failed: %v", step, err)
		results = append(results, RecoveryResult{Step: step, Detail: detail, Err: err})
		return results, err
	}

	if abortMerge {
		inProgress, err := repo.MergeInProgress(ctx)
		if err != nil {
			return fail(RecoveryAbortMerge, "", err)
		}
		if inProgress {
			sink.Info("Aborting merge")
			if err := repo.MergeAbort(ctx); err != nil {
				return fail(RecoveryAbortMerge, "", err)
			}
			results = append(results, RecoveryResult{Step: RecoveryAbortMerge, Detail: "aborted"})
		} else {
			sink.Debug("No merge in progress, nothing to abort")
			results = append(results, RecoveryResult{Step: RecoveryAbortMerge, Detail: "no merge in progress"})
		}
	}

	fallback, err := refs.NewResolver(repo, sink).Fallback(ctx, fallbackNames, outputName)
	if err != nil {
		return fail(RecoverySelectFallback, "", err)
	}
	results = append(results, RecoveryResult{Step: RecoverySelectFallback, Detail: fallback.Name})

	sink.Info("Falling back to branch: %s", output.ColorBranchName(fallback.Name))
	if err := repo.Checkout(ctx, fallback.Name); err != nil {
		return fail(RecoveryCheckoutFallback, fallback.Name, err)
	}
	results = append(results, RecoveryResult{Step: RecoveryCheckoutFallback, Detail: fallback.Name})

	sink.Info("Deleting output branch: %s", output.ColorBranchName(outputName))
	if err := repo.DeleteBranch(ctx, outputName); err != nil {
		return fail(RecoveryDeleteOutput, outputName, err)
	}
	results = append(results, RecoveryResult{Step: RecoveryDeleteOutput, Detail: outputName})

	return results, nil
}
