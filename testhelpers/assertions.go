// Package testhelpers provides testing utilities for mudpatch,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	actual := append([]string{}, branches...)
	want := append([]string{}, expected...)
	sort.Strings(actual)
	sort.Strings(want)

	require.Equal(t, want, actual, "Branches do not match")
}

// ExpectCurrentBranch asserts which branch is checked out.
func ExpectCurrentBranch(t *testing.T, repo *GitRepo, expected string) {
	t.Helper()

	current, err := repo.CurrentBranchName()
	require.NoError(t, err, "Failed to read current branch")
	require.Equal(t, expected, current, "Unexpected current branch")
}
