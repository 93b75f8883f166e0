package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day in minutes since midnight.
// It is not tied to a calendar date.
type ClockTime int

// NewClockTime builds a ClockTime from hour and minute
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS". Seconds are truncated.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	layouts := []string{"15:04", "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
}

// ClockTimeFromMicroseconds converts a time-of-day in microseconds (the
// Postgres TIME wire representation) to a ClockTime.
func ClockTimeFromMicroseconds(us int64) ClockTime {
	return ClockTime(us / int64(time.Minute/time.Microsecond))
}

// Microseconds returns the time-of-day in microseconds since midnight
func (c ClockTime) Microseconds() int64 {
	return int64(c) * int64(time.Minute/time.Microsecond)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// String renders the time as HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Valid reports whether c lies within a single day
func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// MinutesUntil returns the span from c to end. An end before the start is
// treated as crossing midnight.
func (c ClockTime) MinutesUntil(end ClockTime) int {
	d := int(end) - int(c)
	if d < 0 {
		d += minutesPerDay
	}
	return d
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
