// Package errors provides sentinel errors and custom error types for the mudpatch application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrUnknownReference indicates that a branch or tag could not be found
	ErrUnknownReference = errors.New("unknown reference")

	// ErrUnknownBranch indicates that a patch branch could not be found locally or on any remote
	ErrUnknownBranch = errors.New("unknown branch")

	// ErrMultipleRemoteReferences indicates that a name matched references on more than one remote
	ErrMultipleRemoteReferences = errors.New("multiple remote references")

	// ErrBranchExists indicates that a branch about to be created already exists
	ErrBranchExists = errors.New("branch already exists")

	// ErrCheckout indicates that git failed to check out a branch
	ErrCheckout = errors.New("checkout failed")

	// ErrCommit indicates that git failed to create a commit
	ErrCommit = errors.New("commit failed")

	// ErrMergeConflict indicates that merging a patch branch did not complete cleanly
	ErrMergeConflict = errors.New("merge conflict")

	// ErrMergeFailed indicates that a merge run ended without applying every patch
	ErrMergeFailed = errors.New("merge failed")

	// ErrInvalidPatchConfig indicates that a patch configuration file is malformed
	ErrInvalidPatchConfig = errors.New("invalid patch configuration")
)

// UnknownReferenceError represents a base branch or tag that does not exist
type UnknownReferenceError struct {
	Name     string
	RepoPath string
}

func (e *UnknownReferenceError) Error() string {
	if e.RepoPath != "" {
		return fmt.Sprintf("the base reference %s is not present as a branch or tag in the %s repository", e.Name, e.RepoPath)
	}
	return fmt.Sprintf("the reference %s is not present as a branch or tag", e.Name)
}

// Is returns true if the target error is ErrUnknownReference
func (e *UnknownReferenceError) Is(target error) bool {
	return target == ErrUnknownReference
}

// NewUnknownReferenceError creates a new UnknownReferenceError
func NewUnknownReferenceError(name, repoPath string) *UnknownReferenceError {
	return &UnknownReferenceError{Name: name, RepoPath: repoPath}
}

// UnknownBranchError represents a patch whose downstream branch cannot be found
type UnknownBranchError struct {
	PatchTitle string
	BranchName string
}

func (e *UnknownBranchError) Error() string {
	return fmt.Sprintf("branch %s for patch %s does not exist", e.BranchName, e.PatchTitle)
}

// Is returns true if the target error is ErrUnknownBranch or ErrUnknownReference
func (e *UnknownBranchError) Is(target error) bool {
	return target == ErrUnknownBranch || target == ErrUnknownReference
}

// NewUnknownBranchError creates a new UnknownBranchError
func NewUnknownBranchError(patchTitle, branchName string) *UnknownBranchError {
	return &UnknownBranchError{PatchTitle: patchTitle, BranchName: branchName}
}

// MultipleRemoteReferencesError represents a name exposed by several remotes
type MultipleRemoteReferencesError struct {
	Name       string
	References []string
}

func (e *MultipleRemoteReferencesError) Error() string {
	return fmt.Sprintf("found multiple references to %s in the configured remote repositories: %s (name a remote to disambiguate)",
		e.Name, strings.Join(e.References, ", "))
}

// Is returns true if the target error is ErrMultipleRemoteReferences
func (e *MultipleRemoteReferencesError) Is(target error) bool {
	return target == ErrMultipleRemoteReferences
}

// NewMultipleRemoteReferencesError creates a new MultipleRemoteReferencesError
func NewMultipleRemoteReferencesError(name string, references []string) *MultipleRemoteReferencesError {
	return &MultipleRemoteReferencesError{Name: name, References: references}
}

// BranchExistsError represents an output branch name that is already taken
type BranchExistsError struct {
	BranchName string
}

func (e *BranchExistsError) Error() string {
	return fmt.Sprintf("the output branch %s is already present in the target repository. Either remove this branch or choose a new output name", e.BranchName)
}

// Is returns true if the target error is ErrBranchExists
func (e *BranchExistsError) Is(target error) bool {
	return target == ErrBranchExists
}

// NewBranchExistsError creates a new BranchExistsError
func NewBranchExistsError(branchName string) *BranchExistsError {
	return &BranchExistsError{BranchName: branchName}
}

// CheckoutError wraps a failed git checkout
type CheckoutError struct {
	BranchName string
	Err        error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout of %s failed: %v", e.BranchName, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrCheckout
func (e *CheckoutError) Is(target error) bool {
	return target == ErrCheckout
}

// NewCheckoutError creates a new CheckoutError
func NewCheckoutError(branchName string, err error) *CheckoutError {
	return &CheckoutError{BranchName: branchName, Err: err}
}

// CommitError wraps a failed git commit
type CommitError struct {
	Message string
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrCommit
func (e *CommitError) Is(target error) bool {
	return target == ErrCommit
}

// NewCommitError creates a new CommitError
func NewCommitError(message string, err error) *CommitError {
	return &CommitError{Message: message, Err: err}
}

// MergeConflictError represents a patch branch that could not be merged cleanly
type MergeConflictError struct {
	PatchTitle       string
	BranchName       string
	ConflictingFiles []string
	Err              error
}

func (e *MergeConflictError) Error() string {
	msg := fmt.Sprintf("merge of %s failed", e.BranchName)
	if e.PatchTitle != "" {
		msg = fmt.Sprintf("merge of %s (patch %s) failed", e.BranchName, e.PatchTitle)
	}
	if len(e.ConflictingFiles) > 0 {
		msg += fmt.Sprintf("; conflicting files: %s", strings.Join(e.ConflictingFiles, ", "))
	}
	return msg
}

func (e *MergeConflictError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(patchTitle, branchName string, files []string, err error) *MergeConflictError {
	return &MergeConflictError{
		PatchTitle:       patchTitle,
		BranchName:       branchName,
		ConflictingFiles: files,
		Err:              err,
	}
}

// MergeFailedError is returned when a merge run did not apply every patch
type MergeFailedError struct {
	OutputBranch string
	Reason       string
	Err          error
}

func (e *MergeFailedError) Error() string {
	msg := fmt.Sprintf("merging patches into %s failed", e.OutputBranch)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *MergeFailedError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrMergeFailed
func (e *MergeFailedError) Is(target error) bool {
	return target == ErrMergeFailed
}

// NewMergeFailedError creates a new MergeFailedError
func NewMergeFailedError(outputBranch, reason string, err error) *MergeFailedError {
	return &MergeFailedError{OutputBranch: outputBranch, Reason: reason, Err: err}
}

// InvalidPatchConfigError represents a malformed patch configuration file
type InvalidPatchConfigError struct {
	Path    string
	Index   int
	Message string
}

func (e *InvalidPatchConfigError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid patch configuration %s: patch %d: %s", e.Path, e.Index+1, e.Message)
	}
	return fmt.Sprintf("invalid patch configuration %s: %s", e.Path, e.Message)
}

// Is returns true if the target error is ErrInvalidPatchConfig
func (e *InvalidPatchConfigError) Is(target error) bool {
	return target == ErrInvalidPatchConfig
}

// NewInvalidPatchConfigError creates a new InvalidPatchConfigError.
// Pass a negative index for problems that do not belong to a single record.
func NewInvalidPatchConfigError(path string, index int, message string) *InvalidPatchConfigError {
	return &InvalidPatchConfigError{Path: path, Index: index, Message: message}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
