// Package timeslot centralizes the clock-string and calendar-date handling
// used by the availability rules. Times of day are fixed-width zero-padded
// "HH:MM" strings, so plain lexical comparison orders them correctly; dates
// are "YYYY-MM-DD". Weekday names are derived from time.Weekday, never from
// locale-sensitive formatting.
package timeslot

import (
	"fmt"
	"regexp"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a well-formed zero-padded HH:MM string.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD string.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// DayName returns the English weekday name for t ("Sunday" .. "Saturday").
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// FormatClock renders the time of day of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Contains reports whether [start, end] is fully contained in
// [slotStart, slotEnd]. All four must be valid HH:MM strings; the
// fixed-width format makes lexical comparison equivalent to time order.
func Contains(slotStart, slotEnd, start, end string) bool {
	return slotStart <= start && end <= slotEnd
}

// SameDay reports whether two instants fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
