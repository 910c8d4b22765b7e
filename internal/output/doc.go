// Package output provides diagnostic output for mudpatch.
//
// It handles:
//   - The Sink interface that core packages report progress and problems to
//   - Structured logging to the console and an optional rotating log file (Splog)
//   - Recording sinks for tests (Recorder)
//   - Terminal styling and colors (using lipgloss)
package output
