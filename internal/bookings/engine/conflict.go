// Package engine holds the pure decision logic of the booking core: the
// overlap and buffer conflict rules and the overtime/refund calculators.
// Nothing here touches the store or the wall clock; the service layer
// supplies candidates, existing bookings, and the current time.
package engine

import (
	"time"

	"deskhive/pkg/model"
)

// Rule identifies which conflict rule rejected a candidate.
type Rule string

const (
	RuleNone    Rule = ""
	RuleOverlap Rule = "overlap"
	RuleBuffer  Rule = "buffer"
)

// overlapBlocking are the statuses that hold a slot against direct overlap.
// pending_payment is deliberately absent: an unpaid hold must not reserve a
// slot indefinitely.
var overlapBlocking = map[string]bool{
	model.StatusConfirmed: true,
	model.StatusCheckedIn: true,
	model.StatusExtended:  true,
}

// bufferBlocking are the statuses that keep the inter-booking buffer alive
// around them. Finished stays still need turnaround time, so checked_out
// and completed count here even though they no longer block overlap.
// Cancelled bookings free their window entirely.
var bufferBlocking = map[string]bool{
	model.StatusConfirmed:  true,
	model.StatusCheckedIn:  true,
	model.StatusCheckedOut: true,
	model.StatusCompleted:  true,
	model.StatusExtended:   true,
}

// Candidate is the interval a caller wants to commit against a property's
// timeline.
type Candidate struct {
	ExcludeID string // booking being updated, skipped in all checks
	UserID    string
	CheckIn   time.Time
	CheckOut  time.Time
}

// Overlaps is the classic half-open interval test.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BlocksOverlap reports whether b's status holds its slot.
func BlocksOverlap(b *model.Booking) bool {
	return overlapBlocking[b.Status]
}

// Check runs the overlap rule and then the buffer rule for cand against
// existing bookings on the same property. It returns the violated rule and
// the offending booking, or RuleNone when the candidate is clear.
//
// The buffer applies only between different users: a single user may book
// back-to-back slots. A gap of exactly buffer is allowed; one second less
// is not.
func Check(cand Candidate, existing []*model.Booking, buffer time.Duration) (Rule, *model.Booking) {
	for _, b := range existing {
		if b.ID == cand.ExcludeID && cand.ExcludeID != "" {
			continue
		}
		if !overlapBlocking[b.Status] {
			continue
		}
		if Overlaps(b.CheckInTime, b.CheckOutTime, cand.CheckIn, cand.CheckOut) {
			return RuleOverlap, b
		}
	}

	for _, b := range existing {
		if b.ID == cand.ExcludeID && cand.ExcludeID != "" {
			continue
		}
		if b.UserID == cand.UserID {
			continue
		}
		if !bufferBlocking[b.Status] {
			continue
		}
		if violatesBuffer(b, cand, buffer) {
			return RuleBuffer, b
		}
	}

	return RuleNone, nil
}

// violatesBuffer: the existing booking ends inside the buffer window before
// the candidate starts, or starts inside the window after it ends.
func violatesBuffer(b *model.Booking, cand Candidate, buffer time.Duration) bool {
	if b.CheckOutTime.After(cand.CheckIn.Add(-buffer)) && !b.CheckOutTime.After(cand.CheckIn) {
		return true
	}
	if !b.CheckInTime.Before(cand.CheckOut) && b.CheckInTime.Before(cand.CheckOut.Add(buffer)) {
		return true
	}
	return false
}

// ScanWindow returns the query window that covers both conflict rules for
// a candidate interval: the interval itself widened by the buffer on each
// side.
func ScanWindow(checkIn, checkOut time.Time, buffer time.Duration) (time.Time, time.Time) {
	return checkIn.Add(-buffer), checkOut.Add(buffer)
}

// BlockingStatuses lists the statuses a conflict scan must fetch: the union
// of the overlap-blocking and buffer-blocking sets.
func BlockingStatuses() []string {
	return []string{
		model.StatusConfirmed,
		model.StatusCheckedIn,
		model.StatusCheckedOut,
		model.StatusCompleted,
		model.StatusExtended,
	}
}

// OverlapStatuses lists only the statuses that hold a slot against direct
// overlap; this is what calendar availability views filter on.
func OverlapStatuses() []string {
	return []string{
		model.StatusConfirmed,
		model.StatusCheckedIn,
		model.StatusExtended,
	}
}
