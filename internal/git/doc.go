// Package git provides low-level Git operations.
//
// It wraps go-git and git command execution behind the Repo interface:
//   - Reference enumeration (local branches, tags, remotes and their refs)
//   - Branch management (create at a commit, track a remote ref, checkout, delete)
//   - Merging (merge, abort, unmerged paths)
//   - Committing (stage, commit)
//
// This package should be the only place where direct git commands are executed.
package git
