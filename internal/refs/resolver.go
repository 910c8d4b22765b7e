package refs

import (
	"context"
	"fmt"
	"slices"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
)

const branchRefPrefix = "refs/heads/"

// DefaultFallbackBranches are the conventional primary branch names, in priority order
var DefaultFallbackBranches = []string{"main", "master", "trunk"}

// Resolver looks up references in a repository. Nothing is cached: every
// call reads the repository's current refs, since the merge run creates and
// deletes branches as it goes.
type Resolver struct {
	repo git.Repo
	sink output.Sink
}

// NewResolver creates a Resolver for repo reporting to sink
func NewResolver(repo git.Repo, sink output.Sink) *Resolver {
	if sink == nil {
		sink = output.Discard
	}
	return &Resolver{repo: repo, sink: sink}
}

// ResolveLocal returns the local branch called name, or failing that the tag
// called name. It returns nil when neither exists.
func (r *Resolver) ResolveLocal(ctx context.Context, name string) (*Reference, error) {
	branch, err := r.LocalBranch(ctx, name)
	if err != nil || branch != nil {
		return branch, err
	}
	return r.Tag(ctx, name)
}

// LocalBranch returns the local branch called name, or nil
func (r *Resolver) LocalBranch(ctx context.Context, name string) (*Reference, error) {
	branches, err := r.repo.LocalBranches(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range branches {
		if b.Name == name {
			return NewReference(KindLocalBranch, b), nil
		}
	}
	return nil, nil
}

// Tag returns the tag called name, or nil
func (r *Resolver) Tag(ctx context.Context, name string) (*Reference, error) {
	tags, err := r.repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.Name == name {
			return NewReference(KindTag, t), nil
		}
	}
	return nil, nil
}

// FindRemote searches the remote-tracking branches of every configured
// remote, or only of remote when it is non-empty, for a branch called name.
// It does not modify the repository. A name found on more than one remote
// with no remote given is a *errors.MultipleRemoteReferencesError.
func (r *Resolver) FindRemote(ctx context.Context, name, remote string) (*Reference, error) {
	remotes, err := r.repo.Remotes(ctx)
	if err != nil {
		return nil, err
	}
	if len(remotes) == 0 {
		r.sink.Warn("Unable to find reference '%s' in remote repositories as none are configured", name)
		return nil, nil
	}

	if remote != "" {
		if !slices.Contains(remotes, remote) {
			return nil, fmt.Errorf("remote %s is not configured (configured remotes: %v)", remote, remotes)
		}
		r.sink.Info("Searching for reference '%s' in remote repository %s", name, remote)
		remotes = []string{remote}
	} else {
		r.sink.Info("Searching all remote repositories for reference '%s'", name)
	}

	var found []git.Ref
	for _, rem := range remotes {
		remoteRefs, err := r.repo.RemoteRefs(ctx, rem)
		if err != nil {
			return nil, err
		}
		for _, ref := range remoteRefs {
			if ref.Name == name {
				found = append(found, ref)
			}
		}
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return NewReference(KindRemoteTrackingBranch, found[0]), nil
	default:
		names := make([]string, len(found))
		for i, ref := range found {
			names[i] = ref.Remote + "/" + ref.Name
		}
		return nil, mudpatcherrors.NewMultipleRemoteReferencesError(name, names)
	}
}

// ResolveRemote finds name on the remotes like FindRemote and, on a unique
// match, creates a local branch called name tracking the remote branch. The
// returned reference is that new local branch.
func (r *Resolver) ResolveRemote(ctx context.Context, name, remote string) (*Reference, error) {
	remoteRef, err := r.FindRemote(ctx, name, remote)
	if err != nil || remoteRef == nil {
		return nil, err
	}

	r.sink.Info("Found reference matching '%s' in remote %s", name, remoteRef.Remote)
	r.sink.Info("Creating local branch for %s", output.ColorBranchName(remoteRef.QualifiedName()))

	err = r.repo.CreateTrackingBranch(ctx, name, git.Ref{
		Name:   remoteRef.Name,
		Remote: remoteRef.Remote,
		Hash:   remoteRef.Commit(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create local branch for %s: %w", remoteRef.QualifiedName(), err)
	}

	return NewReference(KindLocalBranch, git.Ref{
		Name:     name,
		FullName: branchRefPrefix + name,
		Hash:     remoteRef.Commit(),
	}), nil
}

// Fallback returns the branch to land on after abandoning an output branch:
// the first of names that exists locally (DefaultFallbackBranches when names
// is empty), otherwise the first branch in the repository's branch list.
// Branches named in exclude are never chosen. It only fails when no
// candidate branch is left.
func (r *Resolver) Fallback(ctx context.Context, names []string, exclude ...string) (*Reference, error) {
	if len(names) == 0 {
		names = DefaultFallbackBranches
	}

	all, err := r.repo.LocalBranches(ctx)
	if err != nil {
		return nil, err
	}
	branches := make([]git.Ref, 0, len(all))
	for _, b := range all {
		if !slices.Contains(exclude, b.Name) {
			branches = append(branches, b)
		}
	}
	if len(branches) == 0 {
		return nil, fmt.Errorf("the repository has no branches to fall back to")
	}

	for _, name := range names {
		for _, b := range branches {
			if b.Name == name {
				return NewReference(KindLocalBranch, b), nil
			}
		}
	}

	fallback := NewReference(KindLocalBranch, branches[0])
	r.sink.Warn("Unable to find one of the defined fallback branches %v in this repo. Falling back to the first branch in the branch list: %s",
		names, fallback.Name)
	return fallback, nil
}
