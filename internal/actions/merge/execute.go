package merge

import (
	"context"
	"errors"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
)

// ProgressReporter is an interface for reporting merge progress
type ProgressReporter interface {
	StepStarted(stepIndex int)
	StepCompleted(stepIndex int)
	StepFailed(stepIndex int, err error)
}

// ExecuteOptions contains options for executing a merge session
type ExecuteOptions struct {
	// Cleanup rolls back a failed merge instead of leaving the conflict in place
	Cleanup bool
	// FallbackBranches are the branch names tried, in order, when rolling back
	FallbackBranches []string
	Reporter         ProgressReporter // Optional progress reporter
}

// Execute checks out the session's output branch and merges each step into
// it in order, stopping at the first failed merge. Merge failures are part
// of the returned Outcome, never an error.
func Execute(ctx context.Context, repo git.Repo, sink output.Sink, session *Session, opts ExecuteOptions) *Outcome {
	if sink == nil {
		sink = output.Discard
	}
	outcome := &Outcome{State: StatePending, FailedIndex: -1}
	session.Outcome = outcome
	outputName := session.Output.Name

	sink.Info("Merging patch branches into output branch %s", output.ColorBranchName(outputName))

	if err := repo.Checkout(ctx, outputName); err != nil {
		sink.Error("Unable to check out output branch %s: %v", outputName, err)
		outcome.State = StateCheckoutFailed
		outcome.Err = err
		return outcome
	}

	for session.Cursor < len(session.Steps) {
		i := session.Cursor
		step := session.Steps[i]
		target := step.Ref.QualifiedName()

		sink.Info("Merging branch %s (%s)", output.ColorBranchName(target), output.ColorPatchTitle(step.Patch.Title))
		if opts.Reporter != nil {
			opts.Reporter.StepStarted(i)
		}
		text, err := repo.Merge(ctx, step.Ref.RefName())
		if err != nil {
			outcome.FailedIndex = i
			outcome.Failure = asMergeConflict(step, target, err)
			if opts.Reporter != nil {
				opts.Reporter.StepFailed(i, outcome.Failure)
			}
			sink.Error("Merge of %s failed", target)
			sink.Error("%v", outcome.Failure)
			if outcome.Failure.Err != nil {
				sink.Debug("%v", outcome.Failure.Err)
			}
			break
		}
		sink.Debug("%s", text)
		if opts.Reporter != nil {
			opts.Reporter.StepCompleted(i)
		}
		session.Cursor++
	}

	if outcome.Failure == nil {
		outcome.State = StateSucceeded
		return outcome
	}

	if !opts.Cleanup {
		sink.Warn("Output branch %s has been left with the failed merge in progress", outputName)
		outcome.State = StateFailedAtIndex
		return outcome
	}

	results, err := rollback(ctx, repo, sink, outputName, opts.FallbackBranches, true)
	outcome.Recovery = results
	if err != nil {
		outcome.State = StateRollbackIncomplete
		outcome.Err = err
		return outcome
	}
	outcome.State = StateRolledBack
	return outcome
}

func asMergeConflict(step Step, target string, err error) *mudpatcherrors.MergeConflictError {
	var conflict *mudpatcherrors.MergeConflictError
	if errors.As(err, &conflict) {
		return mudpatcherrors.NewMergeConflictError(step.Patch.Title, target, conflict.ConflictingFiles, conflict.Err)
	}
	return mudpatcherrors.NewMergeConflictError(step.Patch.Title, target, nil, err)
}
