package refs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/refs"
	"mudpatch.dev/mudpatch/testhelpers"
)

func newResolver(t *testing.T, setup testhelpers.SceneSetup) (*testhelpers.Scene, *refs.Resolver, *output.Recorder) {
	t.Helper()
	scene := testhelpers.NewScene(t, setup)
	repo, err := git.OpenRepository(scene.Dir)
	require.NoError(t, err)
	sink := output.NewRecorder()
	return scene, refs.NewResolver(repo, sink), sink
}

func TestResolveLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("finds a local branch", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.CleanPatchSceneSetup)

		ref, err := resolver.ResolveLocal(ctx, "patch-1")
		require.NoError(t, err)
		require.NotNil(t, ref)
		require.Equal(t, refs.KindLocalBranch, ref.Kind)
		require.Equal(t, "patch-1", ref.Name)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("patch-1")), ref.Commit())
	})

	t.Run("finds an annotated tag at its commit", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateAnnotatedTag("v1.0", "release 1.0"))

		ref, err := resolver.ResolveLocal(ctx, "v1.0")
		require.NoError(t, err)
		require.NotNil(t, ref)
		require.Equal(t, refs.KindTag, ref.Kind)
		require.False(t, ref.IsBranch())
		require.Equal(t, "refs/tags/v1.0", ref.RefName())
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("main")), ref.Commit())
	})

	t.Run("prefers a branch over a tag with the same name", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.CleanPatchSceneSetup)
		require.NoError(t, scene.Repo.CheckoutBranch("patch-1"))
		require.NoError(t, scene.Repo.CreateTag("patch-2"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		ref, err := resolver.ResolveLocal(ctx, "patch-2")
		require.NoError(t, err)
		require.Equal(t, refs.KindLocalBranch, ref.Kind)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("patch-2")), ref.Commit())
	})

	t.Run("returns nil for an unknown name", func(t *testing.T) {
		_, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)

		ref, err := resolver.ResolveLocal(ctx, "nope")
		require.NoError(t, err)
		require.Nil(t, ref)
	})
}

func TestFindRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("warns when no remotes are configured", func(t *testing.T) {
		_, resolver, sink := newResolver(t, testhelpers.BasicSceneSetup)

		ref, err := resolver.FindRemote(ctx, "feature", "")
		require.NoError(t, err)
		require.Nil(t, ref)
		require.True(t, sink.Contains(slog.LevelWarn, "none are configured"))
	})

	t.Run("matches the remote-relative branch name", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CreateBranch("feature/x"))
		require.NoError(t, scene.Repo.PushBranch("origin", "feature/x"))
		require.NoError(t, scene.Repo.DeleteBranch("feature/x"))

		ref, err := resolver.FindRemote(ctx, "feature/x", "")
		require.NoError(t, err)
		require.NotNil(t, ref)
		require.Equal(t, refs.KindRemoteTrackingBranch, ref.Kind)
		require.Equal(t, "origin", ref.Remote)
		require.Equal(t, "origin/feature/x", ref.QualifiedName())

		// The qualified name is not a branch name on the remote
		ref, err = resolver.FindRemote(ctx, "origin/feature/x", "")
		require.NoError(t, err)
		require.Nil(t, ref)
		require.False(t, scene.Repo.BranchExists("feature/x"))
	})

	t.Run("reports a name found on several remotes", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateBranch("shared"))
		for _, remote := range []string{"origin", "upstream"} {
			_, err := scene.Repo.CreateBareRemote(remote)
			require.NoError(t, err)
			require.NoError(t, scene.Repo.PushBranch(remote, "shared"))
		}

		_, err := resolver.FindRemote(ctx, "shared", "")
		require.Error(t, err)
		require.True(t, errors.Is(err, mudpatcherrors.ErrMultipleRemoteReferences))
		var multi *mudpatcherrors.MultipleRemoteReferencesError
		require.True(t, errors.As(err, &multi))
		require.Equal(t, []string{"origin/shared", "upstream/shared"}, multi.References)

		ref, err := resolver.FindRemote(ctx, "shared", "upstream")
		require.NoError(t, err)
		require.Equal(t, "upstream", ref.Remote)
	})

	t.Run("rejects a remote that is not configured", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		_, err = resolver.FindRemote(ctx, "feature", "fork")
		require.ErrorContains(t, err, "remote fork is not configured")
	})
}

func TestResolveRemote(t *testing.T) {
	ctx := context.Background()
	scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
	_, err := scene.Repo.CreateBareRemote("origin")
	require.NoError(t, err)
	require.NoError(t, scene.Repo.CreateBranch("feature"))
	require.NoError(t, scene.Repo.PushBranch("origin", "feature"))
	require.NoError(t, scene.Repo.DeleteBranch("feature"))

	ref, err := resolver.ResolveRemote(ctx, "feature", "")
	require.NoError(t, err)
	require.NotNil(t, ref)
	require.Equal(t, refs.KindLocalBranch, ref.Kind)
	require.Equal(t, "feature", ref.Name)
	require.Equal(t, "refs/heads/feature", ref.RefName())
	require.NotEmpty(t, ref.Commit())
	require.True(t, scene.Repo.BranchExists("feature"))
	require.Equal(t, "origin", scene.Repo.Config("branch.feature.remote"))
	require.Equal(t, "refs/heads/feature", scene.Repo.Config("branch.feature.merge"))

	missing, err := resolver.ResolveRemote(ctx, "missing", "")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers main", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateBranch("feature-x"))

		ref, err := resolver.Fallback(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, "main", ref.Name)
	})

	t.Run("uses the first branch when no default exists", func(t *testing.T) {
		scene, resolver, sink := newResolver(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.RunGitCommand("branch", "-m", "main", "release-2"))
		require.NoError(t, scene.Repo.CreateBranch("release-1"))

		ref, err := resolver.Fallback(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, "release-1", ref.Name)
		require.True(t, sink.Contains(slog.LevelWarn, "Falling back to the first branch in the branch list: release-1"))
	})

	t.Run("honors configured names in order", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateBranch("develop"))

		ref, err := resolver.Fallback(ctx, []string{"trunk", "develop", "main"})
		require.NoError(t, err)
		require.Equal(t, "develop", ref.Name)
	})

	t.Run("never returns an excluded branch", func(t *testing.T) {
		scene, resolver, _ := newResolver(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.RunGitCommand("branch", "-m", "main", "b-other"))
		require.NoError(t, scene.Repo.CreateBranch("a-output"))

		ref, err := resolver.Fallback(ctx, nil, "a-output")
		require.NoError(t, err)
		require.Equal(t, "b-other", ref.Name)

		_, err = resolver.Fallback(ctx, nil, "a-output", "b-other")
		require.Error(t, err)
	})
}

func TestReference(t *testing.T) {
	ref := refs.NewReference(refs.KindRemoteTrackingBranch, git.Ref{
		Name:   "feature",
		Remote: "origin",
		Hash:   "0123456789abcdef",
	})
	require.Equal(t, "origin/feature", ref.QualifiedName())
	require.Equal(t, "origin/feature", ref.RefName())
	require.Equal(t, "remote branch origin/feature (0123456)", ref.String())
	require.Equal(t, "kind(9)", refs.Kind(9).String())
}
