package schedule

import (
	"fmt"
	"time"
)

// DayKey identifies one calendar day in YYYY-MM-DD form. Keys are always
// derived through time.Time in UTC, never by slicing formatted strings, so
// the same instant yields the same key regardless of the server's zone.
type DayKey string

const dayKeyLayout = "2006-01-02"

// NewDayKey returns the day key for the calendar day containing t, in UTC.
func NewDayKey(t time.Time) DayKey {
	return DayKey(t.UTC().Format(dayKeyLayout))
}

// ParseDayKey validates s and returns it as a DayKey.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	// Reject keys that parse but do not round-trip, like 2025-3-1.
	if t.Format(dayKeyLayout) != s {
		return "", fmt.Errorf("invalid day key %q", s)
	}
	return DayKey(s), nil
}

// Time returns the UTC midnight of the key's calendar day.
func (k DayKey) Time() time.Time {
	t, _ := time.Parse(dayKeyLayout, string(k))
	return t
}

func (k DayKey) String() string {
	return string(k)
}

// ExpandRange lists every calendar day between a and b inclusive, in
// ascending order. The endpoints may arrive in either order; a gesture
// dragged right-to-left spans the same days as its mirror image.
func ExpandRange(a, b time.Time) []DayKey {
	start := truncateToDay(a)
	end := truncateToDay(b)
	if end.Before(start) {
		start, end = end, start
	}

	var days []DayKey
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, NewDayKey(d))
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
