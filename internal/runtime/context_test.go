package runtime_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mudpatch.dev/mudpatch/internal/config"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/runtime"
	"mudpatch.dev/mudpatch/testhelpers"
)

func TestOpen(t *testing.T) {
	t.Run("loads the repository configuration", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		remote := "upstream"
		require.NoError(t, config.SaveRepoConfig(scene.Dir, &config.RepoConfig{Remote: &remote}))

		ctx, err := runtime.Open(context.Background(), scene.Dir, nil)
		require.NoError(t, err)
		require.Equal(t, scene.Dir, ctx.RepoRoot)
		require.Equal(t, "upstream", ctx.Config.GetRemote())
		require.NotNil(t, ctx.Splog)
	})

	t.Run("logs the opened root at debug level", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		sink := output.NewRecorder()

		_, err := runtime.Open(context.Background(), filepath.Join(scene.Dir, "."), sink)
		require.NoError(t, err)
		require.Len(t, sink.Events, 1)
		require.Contains(t, sink.Events[0].Message, scene.Dir)
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		_, err := runtime.Open(context.Background(), t.TempDir(), nil)
		require.Error(t, err)
	})
}
