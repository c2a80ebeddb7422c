// Package availability answers whether a property can accept a requested
// interval at all, before any conflict checking against other bookings.
// It is pure: the caller supplies the property document and the interval.
package availability

import (
	"fmt"
	"time"

	"deskhive/pkg/model"
	"deskhive/pkg/timeslot"
)

// Rejection reasons, surfaced verbatim in API error details.
const (
	ReasonPropertyInactive = "property_inactive"
	ReasonDateBlocked      = "date_blocked"
	ReasonOutsideSlots     = "outside_slots"
	ReasonCapacityExceeded = "capacity_exceeded"
)

// Decision is the outcome of an availability evaluation. When Available is
// false, Reason holds the machine-readable cause and Message a human one.
type Decision struct {
	Available bool
	Reason    string
	Message   string
}

func ok() Decision {
	return Decision{Available: true}
}

func rejected(reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Evaluate checks the requested interval against the property's status,
// blocked dates, weekly time slots, and seating capacity. The interval must
// already be validated to fall on a single calendar day.
func Evaluate(p *model.Property, checkIn, checkOut time.Time, seats int) Decision {
	if p.Status != model.PropertyActive {
		return rejected(ReasonPropertyInactive,
			fmt.Sprintf("property is %s and not accepting bookings", p.Status))
	}

	date := timeslot.FormatDate(checkIn)
	if p.DateBlocked(date) {
		return rejected(ReasonDateBlocked,
			fmt.Sprintf("property is unavailable on %s", date))
	}

	if seats > p.SeatingCapacity {
		return rejected(ReasonCapacityExceeded,
			fmt.Sprintf("requested %d seats but the property holds %d", seats, p.SeatingCapacity))
	}

	if !withinAllowedSlots(p.BookingRules.AllowedTimeSlots, checkIn, checkOut) {
		return rejected(ReasonOutsideSlots,
			fmt.Sprintf("interval %s-%s on %s falls outside the property's booking hours",
				timeslot.FormatClock(checkIn), timeslot.FormatClock(checkOut), timeslot.DayName(checkIn)))
	}

	return ok()
}

// withinAllowedSlots requires the whole interval to sit inside a single
// available slot for the booking day. An empty slot list means the property
// has no time restrictions.
func withinAllowedSlots(slots []model.TimeSlot, checkIn, checkOut time.Time) bool {
	if len(slots) == 0 {
		return true
	}

	day := timeslot.DayName(checkIn)
	start := timeslot.FormatClock(checkIn)
	end := timeslot.FormatClock(checkOut)

	for _, slot := range slots {
		if slot.Day != day || !slot.IsAvailable {
			continue
		}
		if timeslot.Contains(slot.StartTime, slot.EndTime, start, end) {
			return true
		}
	}
	return false
}
