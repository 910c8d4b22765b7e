package utils

import (
	"os"
)

// NonInteractiveEnv forces non-interactive mode when set
const NonInteractiveEnv = "MUDPATCH_NON_INTERACTIVE"

// IsInteractive checks if we're in an interactive terminal
func IsInteractive() bool {
	if os.Getenv(NonInteractiveEnv) != "" {
		return false
	}

	// Check if stdin is a terminal
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
