package timer

import (
	"errors"
	"strconv"
	"strings"
)

// ErrIncompleteSchedule is returned when the day or the start time is missing
// from the schedule form.
var ErrIncompleteSchedule = errors.New("day and time are required")

// TimerConfig is the schedule submitted with a start request. It is built from
// user input and never kept after the request that carries it.
type TimerConfig struct {
	Timestamp     string `json:"timestamp"`
	Day           string `json:"day"`
	MatchDuration int    `json:"matchDuration"`
	PauseDuration int    `json:"pauseDuration"`
}

// Form holds the raw text of the schedule inputs.
type Form struct {
	Day           string // YYYY-MM-DD
	Time          string // HH:MM
	MatchDuration string // minutes
	PauseDuration string // minutes
}

// Config validates the form and converts it to a TimerConfig. The time gets a
// seconds suffix; durations keep their leading integer and those without one become 0 so the server falls
// back to its own defaults.
func (f Form) Config() (TimerConfig, error) {
	day := strings.TrimSpace(f.Day)
	clock := strings.TrimSpace(f.Time)
	if day == "" || clock == "" {
		return TimerConfig{}, ErrIncompleteSchedule
	}

	return TimerConfig{
		Timestamp:     clock + ":00",
		Day:           day,
		MatchDuration: parseMinutes(f.MatchDuration),
		PauseDuration: parseMinutes(f.PauseDuration),
	}, nil
}

// parseMinutes reads the leading integer of input, so "18.5" and "18 min"
// both give 18. Input without leading digits gives 0.
func parseMinutes(input string) int {
	s := strings.TrimSpace(input)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	val, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return val
}
