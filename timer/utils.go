package timer

import (
	"fmt"
	"time"
)

// TimestampLayout is used for log entry times in the local zone.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp converts t to the local zone and formats it for display.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Local().Format(TimestampLayout)
}

// FormatConfig renders the four schedule fields inline.
func FormatConfig(c TimerConfig) string {
	return fmt.Sprintf("Start Time: %s, Day: %s, Match Duration: %d min, Pause Duration: %d min",
		c.Timestamp, c.Day, c.MatchDuration, c.PauseDuration)
}
