package channel

import "fmt"

// State is the lifecycle position of the push connection.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Trigger is an input to the connection state machine.
type Trigger int

const (
	// TriggerHandshake is a completed websocket handshake.
	TriggerHandshake Trigger = iota
	// TriggerFault is a failed dial, a transport error or a close from either side.
	TriggerFault
	// TriggerRetry fires once the retry delay has passed.
	TriggerRetry
)

func (t Trigger) String() string {
	switch t {
	case TriggerHandshake:
		return "handshake"
	case TriggerFault:
		return "fault"
	case TriggerRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Next returns the state reached from s on trigger t. The cycle has no
// terminal state.
func Next(s State, t Trigger) (State, error) {
	switch {
	case s == StateConnecting && t == TriggerHandshake:
		return StateOpen, nil
	case (s == StateConnecting || s == StateOpen) && t == TriggerFault:
		return StateClosed, nil
	case s == StateClosed && t == TriggerRetry:
		return StateConnecting, nil
	}
	return s, fmt.Errorf("invalid transition: %s on %s", s, t)
}
