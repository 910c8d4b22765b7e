package merge

import (
	"fmt"
	"strings"

	"mudpatch.dev/mudpatch/internal/actions/locate"
	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/refs"
)

// State is where a merge session ended up
type State string

const (
	// StatePending means the session has not been executed
	StatePending State = "PENDING"
	// StateSucceeded means every patch branch was merged
	StateSucceeded State = "SUCCEEDED"
	// StateCheckoutFailed means the output branch could not be checked out; nothing was merged
	StateCheckoutFailed State = "CHECKOUT_FAILED"
	// StateFailedAtIndex means a merge failed and the output branch was left in the conflicted state
	StateFailedAtIndex State = "FAILED_AT_INDEX"
	// StateRolledBack means a merge failed and the output branch was removed
	StateRolledBack State = "ROLLED_BACK"
	// StateRollbackIncomplete means a merge failed and one of the recovery steps failed too
	StateRollbackIncomplete State = "ROLLBACK_INCOMPLETE"
)

// Step is a single patch branch to merge
type Step = locate.PatchBranch

// Session is one run of merging patch branches into an output branch
type Session struct {
	Output *refs.Reference
	Steps  []Step
	// Cursor is the index of the next step to merge
	Cursor  int
	Outcome *Outcome
}

// NewSession creates a pending session merging steps into out, in order
func NewSession(out *refs.Reference, steps []Step) *Session {
	return &Session{
		Output:  out,
		Steps:   steps,
		Outcome: &Outcome{State: StatePending, FailedIndex: -1},
	}
}

// Outcome is the result of executing a Session
type Outcome struct {
	State State
	// FailedIndex is the index of the step whose merge failed, or -1
	FailedIndex int
	// Failure describes the failed merge
	Failure *mudpatcherrors.MergeConflictError
	// Recovery holds the result of each recovery step that ran
	Recovery []RecoveryResult
	// Err is the checkout error for StateCheckoutFailed and the failing
	// recovery step's error for StateRollbackIncomplete
	Err error
}

// Succeeded reports whether every patch branch was merged
func (o *Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// Reason is a short human-readable description of a non-successful outcome
func (o *Outcome) Reason() string {
	switch o.State {
	case StateCheckoutFailed:
		return "output branch could not be checked out"
	case StateFailedAtIndex:
		return fmt.Sprintf("patch %d failed to merge, output branch left with conflicts", o.FailedIndex+1)
	case StateRolledBack:
		return fmt.Sprintf("patch %d failed to merge, output branch removed", o.FailedIndex+1)
	case StateRollbackIncomplete:
		return fmt.Sprintf("patch %d failed to merge and cleanup did not complete", o.FailedIndex+1)
	default:
		return strings.ToLower(string(o.State))
	}
}

// Describe renders the session as a numbered list for display
func (s *Session) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Merge into %s:\n", output.ColorBranchName(s.Output.Name))
	if len(s.Steps) == 0 {
		sb.WriteString("  (no patches)\n")
	}
	for i, step := range s.Steps {
		fmt.Fprintf(&sb, "  %d. %s  %s\n", i+1, output.ColorPatchTitle(step.Patch.Title), step.Ref)
	}
	return sb.String()
}
