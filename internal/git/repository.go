package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
)

// Ref is a named pointer to a commit as stored in the repository.
type Ref struct {
	// Name is the short name: "main" for a branch, "v1.0" for a tag and the
	// remote-relative branch name ("feature/x") for a remote-tracking ref.
	Name string
	// FullName is the complete ref name, e.g. "refs/remotes/origin/feature/x".
	FullName string
	// Remote is set for remote-tracking refs only.
	Remote string
	// Hash is the commit the ref points at. Annotated tags are peeled.
	Hash string
}

// Repository wraps a go-git repository together with a git command runner
// bound to its working tree. Enumeration and ref creation go through go-git;
// working tree operations (checkout, merge, commit) shell out to git.
type Repository struct {
	repo   *gogit.Repository
	root   string
	runner *CommandRunner
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", absPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("the repository at %s has no working directory: %w", absPath, err)
	}
	root := worktree.Filesystem.Root()

	return &Repository{
		repo:   repo,
		root:   root,
		runner: NewCommandRunner(root),
	}, nil
}

// Root returns the root directory of the working tree
func (r *Repository) Root() string {
	return r.root
}

// LocalBranches returns all local branches ordered by ref name, the same
// order `git branch` lists them in.
func (r *Repository) LocalBranches(_ context.Context) ([]Ref, error) {
	branches, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var refs []Ref
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() {
			return nil
		}
		refs = append(refs, Ref{
			Name:     ref.Name().Short(),
			FullName: ref.Name().String(),
			Hash:     ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sortRefs(refs)
	return refs, nil
}

// Tags returns all tags ordered by ref name. Annotated tags are peeled to the
// commit they tag; tags of non-commit objects are skipped.
func (r *Repository) Tags(_ context.Context) ([]Ref, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	var refs []Ref
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		tagObj, err := r.repo.TagObject(hash)
		switch {
		case err == nil:
			commit, err := tagObj.Commit()
			if err != nil {
				return nil
			}
			hash = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("failed to read tag %s: %w", ref.Name().Short(), err)
		}
		refs = append(refs, Ref{
			Name:     ref.Name().Short(),
			FullName: ref.Name().String(),
			Hash:     hash.String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	sortRefs(refs)
	return refs, nil
}

// Remotes returns the names of the configured remotes, sorted
func (r *Repository) Remotes(_ context.Context) ([]string, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to get remotes: %w", err)
	}

	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	sort.Strings(names)
	return names, nil
}

// RemoteRefs returns the remote-tracking branches known locally for remote.
// The symbolic HEAD ref is not included.
func (r *Repository) RemoteRefs(_ context.Context, remote string) ([]Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	prefix := "refs/remotes/" + remote + "/"
	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if ref.Type() != plumbing.HashReference || !strings.HasPrefix(name, prefix) {
			return nil
		}
		short := strings.TrimPrefix(name, prefix)
		if short == "HEAD" {
			return nil
		}
		refs = append(refs, Ref{
			Name:     short,
			FullName: name,
			Remote:   remote,
			Hash:     ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references of remote %s: %w", remote, err)
	}

	sortRefs(refs)
	return refs, nil
}

// CurrentBranch returns the name of the checked out branch
func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}

// CreateBranch creates a local branch pointing at commit without checking it out
func (r *Repository) CreateBranch(_ context.Context, name, commit string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(refName, false); err == nil {
		return mudpatcherrors.NewBranchExistsError(name)
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("failed to look up branch %s: %w", name, err)
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(refName, plumbing.NewHash(commit))); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CreateTrackingBranch creates a local branch at the remote ref's commit and
// configures it to track that remote ref.
func (r *Repository) CreateTrackingBranch(ctx context.Context, name string, remoteRef Ref) error {
	if remoteRef.Remote == "" {
		return fmt.Errorf("cannot track %s: not a remote-tracking reference", remoteRef.FullName)
	}
	if err := r.CreateBranch(ctx, name, remoteRef.Hash); err != nil {
		return err
	}

	err := r.repo.CreateBranch(&gitconfig.Branch{
		Name:   name,
		Remote: remoteRef.Remote,
		Merge:  plumbing.NewBranchReferenceName(remoteRef.Name),
	})
	if err != nil {
		return fmt.Errorf("failed to set upstream of %s to %s/%s: %w", name, remoteRef.Remote, remoteRef.Name, err)
	}
	return nil
}

// Upstream returns the remote and merge ref configured for a branch, if any
func (r *Repository) Upstream(_ context.Context, name string) (string, string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", "", fmt.Errorf("failed to read repository config: %w", err)
	}
	branch, ok := cfg.Branches[name]
	if !ok {
		return "", "", nil
	}
	return branch.Remote, branch.Merge.String(), nil
}

func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].FullName < refs[j].FullName
	})
}
