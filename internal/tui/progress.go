package tui

import "sync"

// ProgressUpdate represents an update to merge progress
type ProgressUpdate struct {
	Type      string // "started", "completed", "failed"
	StepIndex int
	Error     error
}

// ChannelProgressReporter implements merge.ProgressReporter using channels
type ChannelProgressReporter struct {
	updates chan ProgressUpdate
	once    sync.Once
}

// NewChannelProgressReporter creates a new channel-based progress reporter
func NewChannelProgressReporter() *ChannelProgressReporter {
	return &ChannelProgressReporter{
		updates: make(chan ProgressUpdate, 100),
	}
}

// Updates returns the channel for receiving updates
func (r *ChannelProgressReporter) Updates() <-chan ProgressUpdate {
	return r.updates
}

// Close closes the update channel (safe to call multiple times)
func (r *ChannelProgressReporter) Close() {
	r.once.Do(func() {
		close(r.updates)
	})
}

// StepStarted reports that a step has started
func (r *ChannelProgressReporter) StepStarted(stepIndex int) {
	r.updates <- ProgressUpdate{Type: updateStarted, StepIndex: stepIndex}
}

// StepCompleted reports that a step has completed
func (r *ChannelProgressReporter) StepCompleted(stepIndex int) {
	r.updates <- ProgressUpdate{Type: updateCompleted, StepIndex: stepIndex}
}

// StepFailed reports that a step has failed
func (r *ChannelProgressReporter) StepFailed(stepIndex int, err error) {
	r.updates <- ProgressUpdate{Type: updateFailed, StepIndex: stepIndex, Error: err}
}

const (
	updateStarted   = "started"
	updateCompleted = "completed"
	updateFailed    = "failed"
)
