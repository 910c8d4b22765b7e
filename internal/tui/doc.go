// Package tui provides the terminal progress view for merge runs.
//
// A ChannelProgressReporter receives step events from the merge engine and
// RunMergeProgress renders them with bubbletea while the merge runs.
package tui
