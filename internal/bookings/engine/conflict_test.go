package engine

import (
	"testing"
	"time"

	"deskhive/pkg/model"
)

var baseDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return baseDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func existing(id, userID, status string, start, end time.Time) *model.Booking {
	return &model.Booking{
		ID:           id,
		UserID:       userID,
		Status:       status,
		CheckInTime:  start,
		CheckOutTime: end,
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(9, 0), at(11, 0), at(9, 0), at(11, 0), true},
		{"partial", at(9, 0), at(11, 0), at(10, 0), at(12, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"touching end to start", at(9, 0), at(11, 0), at(11, 0), at(13, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(14, 0), at(15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Interval overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps() with swapped intervals = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckOverlapRule(t *testing.T) {
	buffer := 30 * time.Minute
	cand := Candidate{UserID: "u1", CheckIn: at(10, 0), CheckOut: at(12, 0)}

	tests := []struct {
		name     string
		existing []*model.Booking
		wantRule Rule
	}{
		{
			name:     "confirmed booking overlapping",
			existing: []*model.Booking{existing("b1", "u2", model.StatusConfirmed, at(11, 0), at(13, 0))},
			wantRule: RuleOverlap,
		},
		{
			name:     "checked_in booking overlapping",
			existing: []*model.Booking{existing("b1", "u2", model.StatusCheckedIn, at(9, 0), at(10, 30))},
			wantRule: RuleOverlap,
		},
		{
			name:     "extended booking overlapping",
			existing: []*model.Booking{existing("b1", "u2", model.StatusExtended, at(9, 0), at(11, 0))},
			wantRule: RuleOverlap,
		},
		{
			name:     "pending_payment never blocks overlap",
			existing: []*model.Booking{existing("b1", "u2", model.StatusPendingPayment, at(10, 0), at(12, 0))},
			wantRule: RuleNone,
		},
		{
			name:     "cancelled frees the window",
			existing: []*model.Booking{existing("b1", "u2", model.StatusCancelled, at(10, 0), at(12, 0))},
			wantRule: RuleNone,
		},
		{
			name:     "no_show frees the window",
			existing: []*model.Booking{existing("b1", "u2", model.StatusNoShow, at(10, 0), at(12, 0))},
			wantRule: RuleNone,
		},
		{
			name:     "own overlapping booking still blocks",
			existing: []*model.Booking{existing("b1", "u1", model.StatusConfirmed, at(11, 0), at(13, 0))},
			wantRule: RuleOverlap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, _ := Check(cand, tt.existing, buffer)
			if rule != tt.wantRule {
				t.Errorf("Check() rule = %q, want %q", rule, tt.wantRule)
			}
		})
	}
}

func TestCheckBufferRule(t *testing.T) {
	buffer := 30 * time.Minute

	tests := []struct {
		name     string
		cand     Candidate
		existing *model.Booking
		wantRule Rule
	}{
		{
			name:     "15 minute gap before candidate",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 15), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusConfirmed, at(8, 0), at(10, 0)),
			wantRule: RuleBuffer,
		},
		{
			name:     "15 minute gap after candidate",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 0), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusConfirmed, at(12, 15), at(14, 0)),
			wantRule: RuleBuffer,
		},
		{
			name:     "exactly 30 minute gap is allowed",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 30), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusConfirmed, at(8, 0), at(10, 0)),
			wantRule: RuleNone,
		},
		{
			name:     "29m59s gap is rejected",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 30).Add(-time.Second), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusConfirmed, at(8, 0), at(10, 0)),
			wantRule: RuleBuffer,
		},
		{
			name:     "same user books back to back",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 0), CheckOut: at(12, 0)},
			existing: existing("b1", "u1", model.StatusConfirmed, at(8, 0), at(10, 0)),
			wantRule: RuleNone,
		},
		{
			name:     "completed booking keeps its buffer",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 15), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusCompleted, at(8, 0), at(10, 0)),
			wantRule: RuleBuffer,
		},
		{
			name:     "checked_out booking keeps its buffer",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 15), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusCheckedOut, at(8, 0), at(10, 0)),
			wantRule: RuleBuffer,
		},
		{
			name:     "cancelled booking leaves no buffer",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 15), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusCancelled, at(8, 0), at(10, 0)),
			wantRule: RuleNone,
		},
		{
			name:     "pending_payment leaves no buffer",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 15), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusPendingPayment, at(8, 0), at(10, 0)),
			wantRule: RuleNone,
		},
		{
			name:     "far away booking is ignored",
			cand:     Candidate{UserID: "u1", CheckIn: at(10, 0), CheckOut: at(12, 0)},
			existing: existing("b1", "u2", model.StatusConfirmed, at(14, 0), at(16, 0)),
			wantRule: RuleNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, offender := Check(tt.cand, []*model.Booking{tt.existing}, buffer)
			if rule != tt.wantRule {
				t.Errorf("Check() rule = %q, want %q", rule, tt.wantRule)
			}
			if tt.wantRule != RuleNone && offender == nil {
				t.Error("Check() returned nil offender for a violation")
			}
		})
	}
}

func TestCheckExcludesBookingUnderUpdate(t *testing.T) {
	buffer := 30 * time.Minute
	cand := Candidate{ExcludeID: "b1", UserID: "u1", CheckIn: at(10, 0), CheckOut: at(12, 0)}
	others := []*model.Booking{
		existing("b1", "u1", model.StatusConfirmed, at(10, 0), at(12, 0)),
	}
	if rule, _ := Check(cand, others, buffer); rule != RuleNone {
		t.Errorf("Check() rule = %q, want no conflict against the excluded booking", rule)
	}
}

func TestCheckOverlapTakesPrecedenceOverBuffer(t *testing.T) {
	buffer := 30 * time.Minute
	cand := Candidate{UserID: "u1", CheckIn: at(10, 0), CheckOut: at(12, 0)}
	others := []*model.Booking{
		existing("near", "u2", model.StatusCompleted, at(8, 0), at(9, 45)),
		existing("over", "u3", model.StatusConfirmed, at(11, 0), at(13, 0)),
	}
	rule, offender := Check(cand, others, buffer)
	if rule != RuleOverlap {
		t.Fatalf("Check() rule = %q, want %q", rule, RuleOverlap)
	}
	if offender.ID != "over" {
		t.Errorf("Check() offender = %s, want the overlapping booking", offender.ID)
	}
}

func TestScanWindow(t *testing.T) {
	from, to := ScanWindow(at(10, 0), at(12, 0), 30*time.Minute)
	if !from.Equal(at(9, 30)) || !to.Equal(at(12, 30)) {
		t.Errorf("ScanWindow() = [%v, %v], want [%v, %v]", from, to, at(9, 30), at(12, 30))
	}
}
