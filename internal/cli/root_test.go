package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/require"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/patches"
	"mudpatch.dev/mudpatch/testhelpers"
)

func TestLogFileIsClosed(t *testing.T) {
	run := func(t *testing.T, a *app, args ...string) (string, error) {
		t.Helper()
		cmd := newRootCmd(a, "test", "none", "unknown")
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return buf.String(), err
	}

	t.Run("after a failing command", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.PatchSceneSetup)
		logFile := filepath.Join(t.TempDir(), "mudpatch.log")
		patchFile := filepath.Join(t.TempDir(), "patches.yaml")
		require.NoError(t, patches.Save(patchFile, []patches.Patch{
			{Title: "P1", DownstreamBranch: "patch-1"},
			{Title: "P2", DownstreamBranch: "patch-2"},
		}))

		a := &app{}
		out, err := run(t, a, "--log-file", logFile, "merge", "init", scene.Dir, "main", "release-1", patchFile, "--cleanup")
		require.True(t, errors.Is(err, mudpatcherrors.ErrMergeFailed), out)
		require.Nil(t, a.splog)

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(data), "Merging of patches has failed")
	})

	t.Run("after a successful command", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		logFile := filepath.Join(t.TempDir(), "mudpatch.log")

		a := &app{}
		_, err := run(t, a, "--log-file", logFile, "config", "--repo", scene.Dir)
		require.NoError(t, err)
		require.Nil(t, a.splog)
	})
}

func TestPromptPatchKeepsCause(t *testing.T) {
	// A regular file is not a terminal, so survey cannot switch it to raw mode
	f, err := os.CreateTemp(t.TempDir(), "stdio")
	require.NoError(t, err)
	defer f.Close()

	cmd := newPatchesAddCmd(&app{})
	var p patches.Patch
	err = promptPatch(cmd, &p, survey.WithStdio(f, f, f))
	require.ErrorContains(t, err, "prompt canceled: ")
	require.NotNil(t, errors.Unwrap(err))
}
