package output

import (
	"os"
	"path/filepath"
)

// LogFileEnv names the environment variable that enables file logging
const LogFileEnv = "MUDPATCH_LOG_FILE"

// GetLogFilePath returns the log file requested through MUDPATCH_LOG_FILE,
// or "" when file logging is off.
func GetLogFilePath() string {
	return os.Getenv(LogFileEnv)
}

// DefaultLogFilePath returns ~/.mudpatch/logs/mudpatch.log
func DefaultLogFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "mudpatch.log"
	}
	return filepath.Join(homeDir, ".mudpatch", "logs", "mudpatch.log")
}
