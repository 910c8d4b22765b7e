package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatchSceneSetup(t *testing.T) {
	scene := NewScene(t, PatchSceneSetup)

	ExpectCurrentBranch(t, scene.Repo, "main")
	ExpectBranches(t, scene.Repo, []string{"main", "patch-1", "patch-2", "patch-3"})

	content, err := scene.Repo.ShowFile("patch-2", "shared.txt")
	require.NoError(t, err)
	require.Equal(t, "two", content)

	require.NoError(t, scene.Repo.RunGitCommand("merge", "patch-1"))
	require.Error(t, scene.Repo.RunGitCommand("merge", "patch-2"))
	require.True(t, scene.Repo.MergeInProgress())
	require.Equal(t, []string{"shared.txt"}, Must(scene.Repo.UnmergedFiles()))
}

func TestCleanPatchSceneSetup(t *testing.T) {
	scene := NewScene(t, CleanPatchSceneSetup)

	for _, name := range []string{"patch-1", "patch-2", "patch-3"} {
		require.NoError(t, scene.Repo.RunGitCommand("merge", "--no-edit", name))
	}
	require.False(t, scene.Repo.MergeInProgress())
	content, err := scene.Repo.ReadFile("patch-3.txt")
	require.NoError(t, err)
	require.Equal(t, "patch-3\n", content)
}
