package models

import (
	"fmt"
	"strconv"
	"time"
)

// Weekdays lists the ISO short weekday names used as template keys, in
// calendar-header order (Sunday first, matching time.Weekday).
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayKey truncates a weekday to the 3-letter short name shared by
// template keys and projector lookups.
func WeekdayKey(d time.Weekday) string {
	return d.String()[:3]
}

// ValidWeekday reports whether the key is one of the 7 short names.
func ValidWeekday(key string) bool {
	for _, w := range Weekdays {
		if w == key {
			return true
		}
	}
	return false
}

// TimeSlot is one weekday's recurring availability window.
type TimeSlot struct {
	Enabled bool   `db:"enabled" json:"enabled"`
	Start   string `db:"start_time" json:"start"`
	End     string `db:"end_time" json:"end"`
}

// AvailabilityTemplate is a tutor's recurring weekly schedule: one
// independently toggleable window per weekday. Absent keys mean the day is
// not bookable.
type AvailabilityTemplate struct {
	TutorID string              `json:"tutor_id"`
	Days    map[string]TimeSlot `json:"days"`
}

// Validate checks weekday keys and window ordering for enabled days.
func (t *AvailabilityTemplate) Validate() error {
	for key, slot := range t.Days {
		if !ValidWeekday(key) {
			return fmt.Errorf("unknown weekday key %q", key)
		}
		if !slot.Enabled {
			continue
		}
		start, err := ClockToMinutes(slot.Start)
		if err != nil {
			return fmt.Errorf("weekday %s: %w", key, err)
		}
		end, err := ClockToMinutes(slot.End)
		if err != nil {
			return fmt.Errorf("weekday %s: %w", key, err)
		}
		if start >= end {
			return fmt.Errorf("weekday %s: start %q must be before end %q", key, slot.Start, slot.End)
		}
	}
	return nil
}

// ClockToMinutes parses an "HH:MM" clock string into minutes since midnight.
// Both fields must be zero-padded to exactly two digits: stored clock values
// are compared lexicographically, and "9:00" would sort after "10:00".
func ClockToMinutes(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' ||
		!isDigits(clock[:2]) || !isDigits(clock[3:]) {
		return 0, fmt.Errorf("invalid clock value %q, expected zero-padded HH:MM", clock)
	}
	hours, err := strconv.Atoi(clock[:2])
	if err != nil || hours > 23 {
		return 0, fmt.Errorf("invalid clock value %q, expected zero-padded HH:MM", clock)
	}
	minutes, err := strconv.Atoi(clock[3:])
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("invalid clock value %q, expected zero-padded HH:MM", clock)
	}
	return hours*60 + minutes, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
