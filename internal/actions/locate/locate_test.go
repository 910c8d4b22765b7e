package locate_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"mudpatch.dev/mudpatch/internal/actions/locate"
	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/patches"
	"mudpatch.dev/mudpatch/internal/refs"
	"mudpatch.dev/mudpatch/testhelpers"
)

func patchList(branches ...string) []patches.Patch {
	list := make([]patches.Patch, len(branches))
	for i, b := range branches {
		list[i] = patches.Patch{Title: "PATCH-" + b, DownstreamBranch: b}
	}
	return list
}

// pushAndForget pushes branch to each remote and deletes the local copy so
// only the remote-tracking refs are left.
func pushAndForget(t *testing.T, scene *testhelpers.Scene, branch string, remotes ...string) {
	t.Helper()
	for _, remote := range remotes {
		require.NoError(t, scene.Repo.PushBranch(remote, branch))
	}
	require.NoError(t, scene.Repo.DeleteBranch(branch))
}

func TestPatchBranches(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps configuration order", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		located, err := locate.PatchBranches(ctx, repo, output.Discard, patchList("patch-3", "patch-1", "patch-2"), locate.Options{})
		require.NoError(t, err)
		require.Len(t, located, 3)

		names := []string{located[0].Ref.Name, located[1].Ref.Name, located[2].Ref.Name}
		require.Equal(t, []string{"patch-3", "patch-1", "patch-2"}, names)
		require.Equal(t, "PATCH-patch-3", located[0].Patch.Title)
		for _, pb := range located {
			require.Equal(t, refs.KindLocalBranch, pb.Ref.Kind)
			require.Equal(t, testhelpers.Must(scene.Repo.GetRevision(pb.Ref.Name)), pb.Ref.Commit())
		}
	})

	t.Run("resolves tags", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateTag("patch-tag"))
		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		located, err := locate.PatchBranches(ctx, repo, output.Discard, patchList("patch-tag"), locate.Options{})
		require.NoError(t, err)
		require.Equal(t, refs.KindTag, located[0].Ref.Kind)
	})

	t.Run("first unresolvable patch is reported", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)
		sink := output.NewRecorder()

		list := patchList("patch-1", "missing-a", "missing-b")
		_, err = locate.PatchBranches(ctx, repo, sink, list, locate.Options{})
		require.Error(t, err)
		require.True(t, errors.Is(err, mudpatcherrors.ErrUnknownBranch))

		var unknown *mudpatcherrors.UnknownBranchError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, "PATCH-missing-a", unknown.PatchTitle)
		require.Equal(t, "missing-a", unknown.BranchName)
		require.True(t, sink.Contains(slog.LevelWarn, "none are configured"))
	})

	t.Run("materializes a remote branch as a tracking branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		remoteRev := testhelpers.Must(scene.Repo.GetRevision("patch-2"))
		pushAndForget(t, scene, "patch-2", "origin")

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		located, err := locate.PatchBranches(ctx, repo, output.Discard, patchList("patch-1", "patch-2"), locate.Options{})
		require.NoError(t, err)
		require.Equal(t, refs.KindLocalBranch, located[1].Ref.Kind)
		require.Equal(t, remoteRev, located[1].Ref.Commit())

		require.True(t, scene.Repo.BranchExists("patch-2"))
		require.Equal(t, "origin", scene.Repo.Config("branch.patch-2.remote"))
		require.Equal(t, "refs/heads/patch-2", scene.Repo.Config("branch.patch-2.merge"))
	})

	t.Run("dry run does not create tracking branches", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		pushAndForget(t, scene, "patch-2", "origin")

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		located, err := locate.PatchBranches(ctx, repo, output.Discard, patchList("patch-2"), locate.Options{DryRun: true})
		require.NoError(t, err)
		require.Equal(t, refs.KindRemoteTrackingBranch, located[0].Ref.Kind)
		require.Equal(t, "origin/patch-2", located[0].Ref.QualifiedName())
		require.False(t, scene.Repo.BranchExists("patch-2"))
	})

	t.Run("branch on several remotes is ambiguous", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		_, err = scene.Repo.CreateBareRemote("upstream")
		require.NoError(t, err)
		pushAndForget(t, scene, "patch-2", "origin", "upstream")

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)
		before := testhelpers.Must(scene.Repo.GetLocalBranches())

		_, err = locate.PatchBranches(ctx, repo, output.Discard, patchList("patch-2"), locate.Options{})
		require.Error(t, err)
		require.True(t, errors.Is(err, mudpatcherrors.ErrMultipleRemoteReferences))

		var multi *mudpatcherrors.MultipleRemoteReferencesError
		require.True(t, errors.As(err, &multi))
		require.ElementsMatch(t, []string{"origin/patch-2", "upstream/patch-2"}, multi.References)
		testhelpers.ExpectBranches(t, scene.Repo, before)
	})

	t.Run("explicit remote disambiguates", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		_, err = scene.Repo.CreateBareRemote("upstream")
		require.NoError(t, err)
		pushAndForget(t, scene, "patch-2", "origin", "upstream")

		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		located, err := locate.PatchBranches(ctx, repo, output.Discard, patchList("patch-2"), locate.Options{Remote: "upstream"})
		require.NoError(t, err)
		require.Equal(t, "patch-2", located[0].Ref.Name)
		require.Equal(t, "upstream", scene.Repo.Config("branch.patch-2.remote"))
	})

	t.Run("unknown remote is an error", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.CleanPatchSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		repo, err := git.OpenRepository(scene.Dir)
		require.NoError(t, err)

		_, err = locate.PatchBranches(ctx, repo, output.Discard, patchList("missing"), locate.Options{Remote: "nope"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "remote nope is not configured")
	})
}
