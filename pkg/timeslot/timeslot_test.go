package timeslot

import (
	"testing"
	"time"
)

func TestValidClock(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"0930", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidClock(tt.in); got != tt.valid {
			t.Errorf("ValidClock(%q) = %v, want %v", tt.in, got, tt.valid)
		}
	}
}

func TestDayName_LocaleIndependent(t *testing.T) {
	// 2026-08-31 is a Monday regardless of host locale.
	d, err := ParseDate("2026-08-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := DayName(d); got != "Monday" {
		t.Errorf("DayName = %q, want Monday", got)
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name                       string
		slotStart, slotEnd         string
		start, end                 string
		want                       bool
	}{
		{"fully inside", "09:00", "18:00", "10:00", "12:00", true},
		{"exact match", "09:00", "18:00", "09:00", "18:00", true},
		{"starts before slot", "09:00", "18:00", "08:59", "12:00", false},
		{"ends after slot", "09:00", "18:00", "10:00", "18:01", false},
		{"touches slot start", "09:00", "18:00", "09:00", "09:15", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.slotStart, tt.slotEnd, tt.start, tt.end); got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("expected same day for two instants on 2026-08-31")
	}
	if SameDay(b, c) {
		t.Error("expected different days across midnight")
	}
}
