// Package refs resolves branch and tag names to concrete references across
// the local repository and its configured remotes.
package refs

import (
	"fmt"

	"mudpatch.dev/mudpatch/internal/git"
)

// Kind identifies what sort of reference a Reference is
type Kind uint8

const (
	// KindLocalBranch is a branch under refs/heads
	KindLocalBranch Kind = iota
	// KindTag is a tag under refs/tags
	KindTag
	// KindRemoteTrackingBranch is a branch under refs/remotes/<remote>
	KindRemoteTrackingBranch
)

func (k Kind) String() string {
	switch k {
	case KindLocalBranch:
		return "branch"
	case KindTag:
		return "tag"
	case KindRemoteTrackingBranch:
		return "remote branch"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Reference is a resolved branch, tag or remote-tracking branch. Code that
// only needs the commit should use Commit() and ignore Kind.
type Reference struct {
	Kind Kind
	// Name is the short name used to check out or merge the reference
	Name string
	// FullName is the complete ref name, e.g. "refs/heads/feature"
	FullName string
	// Remote is set for remote-tracking branches only
	Remote string
	commit string
}

// NewReference creates a Reference of kind k from a repository ref
func NewReference(k Kind, ref git.Ref) *Reference {
	return &Reference{
		Kind:     k,
		Name:     ref.Name,
		FullName: ref.FullName,
		Remote:   ref.Remote,
		commit:   ref.Hash,
	}
}

// Commit returns the commit id the reference points at
func (r *Reference) Commit() string {
	return r.commit
}

// IsBranch reports whether the reference is a local branch
func (r *Reference) IsBranch() bool {
	return r.Kind == KindLocalBranch
}

// QualifiedName returns the name including the remote for remote-tracking branches
func (r *Reference) QualifiedName() string {
	if r.Kind == KindRemoteTrackingBranch {
		return r.Remote + "/" + r.Name
	}
	return r.Name
}

// RefName returns the unambiguous name to hand to git. A tag and a branch
// can share a short name, and git prefers the tag when given only that.
func (r *Reference) RefName() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.QualifiedName()
}

func (r *Reference) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Kind, r.QualifiedName(), shortHash(r.commit))
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
