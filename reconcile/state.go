package reconcile

import (
	"slices"
	"sync"

	"MatchTimer/timer"
)

// State is the single in-memory view of the timer service: whether the timer
// runs and the last fetched event log. Only the Reconciler writes it.
type State struct {
	mu      sync.RWMutex
	running bool
	logs    []timer.LogEntry
}

// Running returns the last known timer state.
func (s *State) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Logs returns a copy of the last fetched log, oldest first.
func (s *State) Logs() []timer.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.logs)
}

func (s *State) setRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
}

// replaceLogs swaps in entries wholesale and reports whether they differ from
// what was held before.
func (s *State) replaceLogs(entries []timer.LogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.logs == nil || !slices.EqualFunc(s.logs, entries, timer.LogEntry.Equal)
	s.logs = slices.Clone(entries)
	if s.logs == nil {
		s.logs = []timer.LogEntry{}
	}
	return changed
}
