package channel

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"MatchTimer/timer"
)

// Handler reacts to one push event.
type Handler func(timer.Event)

// Dispatcher routes inbound messages to handlers keyed by action.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewDispatcher creates an empty registry.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Register adds h for action.
func (d *Dispatcher) Register(action string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[action] = append(d.handlers[action], h)
}

// Dispatch decodes a raw message and runs the handlers for its action.
// It reports whether any handler ran. Unknown actions are ignored.
func (d *Dispatcher) Dispatch(raw []byte) bool {
	var ev timer.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Warn().Err(err).Bytes("message", raw).Msg("dropping malformed push message")
		return false
	}

	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[ev.Action]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debug().Str("action", ev.Action).Msg("ignoring push message with unknown action")
		return false
	}
	for _, h := range handlers {
		h(ev)
	}
	return true
}
