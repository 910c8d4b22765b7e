package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"mudpatch.dev/mudpatch/testhelpers"
)

func stringPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func TestGetRepoConfig(t *testing.T) {
	t.Run("defaults when the file does not exist", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		cfg, err := GetRepoConfig(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, []string{"main", "master", "trunk"}, cfg.GetFallbackBranches())
		require.Equal(t, "patches-config.yaml", cfg.GetManifestFile())
		require.Equal(t, "", cfg.GetRemote())
		require.False(t, cfg.GetCleanup())
	})

	t.Run("round trips saved values", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		err := SaveRepoConfig(scene.Dir, &RepoConfig{
			FallbackBranches: []string{"develop"},
			ManifestFile:     stringPtr("PATCHES.yaml"),
			Remote:           stringPtr("upstream"),
			Cleanup:          boolPtr(true),
		})
		require.NoError(t, err)

		cfg, err := GetRepoConfig(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, []string{"develop"}, cfg.GetFallbackBranches())
		require.Equal(t, "PATCHES.yaml", cfg.GetManifestFile())
		require.Equal(t, "upstream", cfg.GetRemote())
		require.True(t, cfg.GetCleanup())
	})

	t.Run("empty manifest name falls back to the default", func(t *testing.T) {
		cfg := &RepoConfig{ManifestFile: stringPtr("")}
		require.Equal(t, "patches-config.yaml", cfg.GetManifestFile())
	})

	t.Run("unset fields are omitted", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		require.NoError(t, SaveRepoConfig(scene.Dir, &RepoConfig{Remote: stringPtr("origin")}))
		data, err := os.ReadFile(ConfigPath(scene.Dir))
		require.NoError(t, err)
		require.JSONEq(t, `{"remote": "origin"}`, string(data))
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		require.NoError(t, os.WriteFile(ConfigPath(scene.Dir), []byte("{not json"), 0600))
		_, err := GetRepoConfig(scene.Dir)
		require.ErrorContains(t, err, "failed to parse repo config")
	})
}
