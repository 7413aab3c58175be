// Package logtest captures the global zerolog logger in tests.
package logtest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Entry is one decoded log line.
type Entry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Error   string `json:"error"`

	// Fields holds every key of the line, including the ones above.
	Fields map[string]any `json:"-"`
}

// Sink collects JSON log lines. It is safe for concurrent writers.
type Sink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// Capture points log.Logger at a new Sink at debug level and restores the
// previous logger when the test ends.
func Capture(t testing.TB) *Sink {
	t.Helper()
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	s := &Sink{}
	log.Logger = zerolog.New(s)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	return s
}

// Entries decodes every line written so far. Lines that are not JSON are
// skipped.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	data := append([]byte(nil), s.buf.Bytes()...)
	s.mu.Unlock()

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var e Entry
		if json.Unmarshal(sc.Bytes(), &e) != nil {
			continue
		}
		_ = json.Unmarshal(sc.Bytes(), &e.Fields)
		entries = append(entries, e)
	}
	return entries
}

// Find returns the first entry with the given level and message.
func (s *Sink) Find(level zerolog.Level, message string) (Entry, bool) {
	for _, e := range s.Entries() {
		if e.Level == level.String() && e.Message == message {
			return e, true
		}
	}
	return Entry{}, false
}

// Count returns how many entries have the given level.
func (s *Sink) Count(level zerolog.Level) int {
	n := 0
	for _, e := range s.Entries() {
		if e.Level == level.String() {
			n++
		}
	}
	return n
}
