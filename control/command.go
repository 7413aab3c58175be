// Package control defines the command messages the UI sends to the
// application command loop. The loop runs every user-initiated server call on
// one goroutine so button presses are handled in the order they were made.
package control

import "MatchTimer/timer"

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdCheckStatus CommandType = iota
	CmdStart
	CmdStop
	CmdClearLogs
	CmdRefreshLogs
)

func (c CommandType) String() string {
	switch c {
	case CmdCheckStatus:
		return "check_status"
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdClearLogs:
		return "clear_logs"
	case CmdRefreshLogs:
		return "refresh_logs"
	}
	return "unknown"
}

// Command is the message sent from the UI to AppManager.commandLoop. Form is
// only read by CmdStart. The optional Reply channel receives the command's
// result and must be buffered.
type Command struct {
	Type  CommandType
	Form  *timer.Form
	Reply chan error
}
