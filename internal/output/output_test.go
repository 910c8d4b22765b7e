package output

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplog(t *testing.T) {
	t.Run("debug messages are hidden unless enabled", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(Options{Writer: &buf})
		require.NoError(t, err)

		splog.Debug("raw git output")
		splog.Info("Creating new branch %s", "release-1")
		require.Equal(t, "Creating new branch release-1\n", buf.String())

		buf.Reset()
		splog, err = NewSplogWithConfig(Options{Writer: &buf, Debug: true})
		require.NoError(t, err)
		splog.Debug("raw git output")
		require.Equal(t, "raw git output\n", buf.String())
	})

	t.Run("warnings and errors are prefixed", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(Options{Writer: &buf})
		require.NoError(t, err)

		splog.Warn("careful")
		splog.Error("broken: %d", 2)
		require.Equal(t, "⚠️  careful\n❌ broken: 2\n", buf.String())
	})

	t.Run("format verbs are left alone without arguments", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(Options{Writer: &buf})
		require.NoError(t, err)

		splog.Info("100% done")
		require.Equal(t, "100% done\n", buf.String())
	})

	t.Run("page writes preformatted text to the console only", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "mudpatch.log")
		splog, err := NewSplogWithConfig(Options{Writer: &buf, LogFile: logFile})
		require.NoError(t, err)

		splog.Page("Merge into release-1:\n  1. P1  branch patch-1\n")
		splog.Info("logged")
		require.NoError(t, splog.Close())
		require.Equal(t, "Merge into release-1:\n  1. P1  branch patch-1\nlogged\n", buf.String())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.NotContains(t, string(data), "Merge into")
	})

	t.Run("log file receives every level", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "logs", "mudpatch.log")
		splog, err := NewSplogWithConfig(Options{Writer: &buf, LogFile: logFile})
		require.NoError(t, err)

		splog.Debug("only in the file")
		splog.Info("everywhere")
		require.NoError(t, splog.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(data), "level=DEBUG")
		require.Contains(t, string(data), "only in the file")
		require.Contains(t, string(data), "everywhere")
		require.NotContains(t, buf.String(), "only in the file")
	})

	t.Run("log rotation settings come from the environment", func(t *testing.T) {
		t.Setenv("MUDPATCH_LOG_MAX_SIZE", "5")
		t.Setenv("MUDPATCH_LOG_MAX_BACKUPS", "0")
		t.Setenv("MUDPATCH_LOG_MAX_AGE", "bogus")

		logger := createLumberjackLogger("x.log")
		require.Equal(t, 5, logger.MaxSize)
		require.Equal(t, 0, logger.MaxBackups)
		require.Equal(t, 30, logger.MaxAge)
	})
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	var sink Sink = r

	sink.Info("Patch %s: %s", "P1", "patch-1")
	sink.Warn("careful")
	sink.Error("broken")
	sink.Debug("details")
	sink.Page("1. P1\n")

	require.Len(t, r.Events, 5)
	require.Equal(t, []string{"Patch P1: patch-1", "1. P1\n"}, r.Messages(slog.LevelInfo))
	require.True(t, r.Contains(slog.LevelWarn, "care"))
	require.False(t, r.Contains(slog.LevelInfo, "broken"))

	require.NotPanics(t, func() {
		Discard.Info("dropped %s", "message")
	})
}

func TestLogFilePath(t *testing.T) {
	t.Setenv(LogFileEnv, "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", GetLogFilePath())

	t.Setenv(LogFileEnv, "")
	require.Equal(t, "", GetLogFilePath())
	require.Equal(t, "mudpatch.log", filepath.Base(DefaultLogFilePath()))
}
