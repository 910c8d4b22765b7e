package git

import "context"

// Repo defines the repository operations the merge engine depends on.
// *Repository is the real implementation; tests may substitute fakes to
// inject failures that are awkward to produce with a real working tree.
type Repo interface {
	// Repository state
	Root() string
	CurrentBranch(ctx context.Context) (string, error)

	// Reference enumeration
	LocalBranches(ctx context.Context) ([]Ref, error)
	Tags(ctx context.Context) ([]Ref, error)
	Remotes(ctx context.Context) ([]string, error)
	RemoteRefs(ctx context.Context, remote string) ([]Ref, error)

	// Branch management
	CreateBranch(ctx context.Context, name, commit string) error
	CreateTrackingBranch(ctx context.Context, name string, remoteRef Ref) error
	Checkout(ctx context.Context, branchName string) error
	DeleteBranch(ctx context.Context, branchName string) error
	Upstream(ctx context.Context, name string) (string, string, error)

	// Merging
	Merge(ctx context.Context, refName string) (string, error)
	MergeAbort(ctx context.Context) error
	MergeInProgress(ctx context.Context) (bool, error)

	// Committing
	Stage(ctx context.Context, path string) error
	HasStagedChanges(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string) (string, error)
}

var _ Repo = (*Repository)(nil)
