package output

import (
	"fmt"
	"log/slog"
	"strings"
)

// Sink receives diagnostics from core operations. Every component takes a
// Sink explicitly instead of writing to a global logger.
type Sink interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// Page writes preformatted output as-is
	Page(content string)
}

// Event is a single diagnostic captured by a Recorder
type Event struct {
	Level   slog.Level
	Message string
}

// Recorder is a Sink that keeps every event in memory
type Recorder struct {
	Events []Event
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level slog.Level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	r.Events = append(r.Events, Event{Level: level, Message: msg})
}

// Debug records a debug event
func (r *Recorder) Debug(format string, args ...interface{}) {
	r.record(slog.LevelDebug, format, args)
}

// Info records an info event
func (r *Recorder) Info(format string, args ...interface{}) {
	r.record(slog.LevelInfo, format, args)
}

// Warn records a warning event
func (r *Recorder) Warn(format string, args ...interface{}) {
	r.record(slog.LevelWarn, format, args)
}

// Error records an error event
func (r *Recorder) Error(format string, args ...interface{}) {
	r.record(slog.LevelError, format, args)
}

// Page records preformatted output as an info event
func (r *Recorder) Page(content string) {
	r.Events = append(r.Events, Event{Level: slog.LevelInfo, Message: content})
}

// Messages returns the messages recorded at level
func (r *Recorder) Messages(level slog.Level) []string {
	var msgs []string
	for _, e := range r.Events {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// Contains reports whether any event at level contains substr
func (r *Recorder) Contains(level slog.Level, substr string) bool {
	for _, msg := range r.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

type discard struct{}

func (discard) Debug(string, ...interface{}) {}
func (discard) Info(string, ...interface{})  {}
func (discard) Warn(string, ...interface{})  {}
func (discard) Error(string, ...interface{}) {}
func (discard) Page(string)                  {}

// Discard is a Sink that drops everything
var Discard Sink = discard{}
