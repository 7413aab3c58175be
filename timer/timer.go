// Package timer contains the domain types shared by the dashboard: the
// schedule submitted to the timer service, the log entries it reports, the
// push events it broadcasts and the audio cues those events map to.
//
// Everything here is plain data. State ownership lives in the reconcile
// package; nothing in this package is mutated after it is received.
package timer

import "time"

// Status is the server's answer to a status check.
type Status struct {
	Running bool `json:"timerRunning"`
}

// LogEntry is one event recorded by the timer service.
type LogEntry struct {
	Event         string       `json:"event"`
	Time          time.Time    `json:"time"`
	Configuration *TimerConfig `json:"configuration,omitempty"`
}

// Equal reports whether two entries describe the same event.
func (e LogEntry) Equal(o LogEntry) bool {
	if e.Event != o.Event || !e.Time.Equal(o.Time) {
		return false
	}
	if e.Configuration == nil || o.Configuration == nil {
		return e.Configuration == o.Configuration
	}
	return *e.Configuration == *o.Configuration
}

// Push actions broadcast by the timer service.
const (
	ActionMatchStart = "match_start"
	ActionMatchEnd   = "match_end"
)

// Event is an inbound push notification.
type Event struct {
	Action string `json:"action"`
}

// Cue identifies an audio signal.
type Cue string

const (
	CueStart Cue = "start"
	CueStop  Cue = "stop"
)

// CueFor maps a push action to its cue. Unknown actions have none.
func CueFor(action string) (Cue, bool) {
	switch action {
	case ActionMatchStart:
		return CueStart, true
	case ActionMatchEnd:
		return CueStop, true
	}
	return "", false
}
