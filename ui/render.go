package ui

import (
	"MatchTimer/i18n"
	"MatchTimer/timer"
)

// Controls is the projection of the running flag onto the control panel.
// Exactly one of the two buttons is enabled.
type Controls struct {
	StartEnabled bool
	StopEnabled  bool
	Status       string
}

// ControlsFor maps the timer state onto the buttons and status text.
func ControlsFor(running bool) Controls {
	if running {
		return Controls{StartEnabled: false, StopEnabled: true, Status: i18n.T("Timer is running...")}
	}
	return Controls{StartEnabled: true, StopEnabled: false, Status: i18n.T("Timer is stopped.")}
}

// LogLine is one rendered log entry.
type LogLine struct {
	Event  string
	Time   string
	Config string // empty when the entry has no configuration
}

// LogLines renders entries newest first. The input is not modified.
func LogLines(entries []timer.LogEntry) []LogLine {
	lines := make([]LogLine, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		line := LogLine{Event: e.Event, Time: timer.FormatTimestamp(e.Time)}
		if e.Configuration != nil {
			line.Config = timer.FormatConfig(*e.Configuration)
		}
		lines = append(lines, line)
	}
	return lines
}
