package engine

import (
	"math"
	"time"

	"deskhive/pkg/model"
)

// Refund tier thresholds and fractions for a standard cancellation.
const (
	refundTierFull = 24 * time.Hour
	refundTierHalf = 12 * time.Hour
	refundTierLate = 4 * time.Hour
	refundFracFull = 0.80
	refundFracHalf = 0.50
	refundFracLate = 0.25
)

// Overtime is the outcome of a checkout that ran past the planned end.
type Overtime struct {
	Hours       int
	Amount      float64
	WithinGrace bool
}

// ComputeOvertime charges whole hours past the planned checkout plus the
// property's grace period. Any partial hour rounds up. A checkout at or
// before the grace boundary costs nothing.
func ComputeOvertime(planned, actual time.Time, grace time.Duration, hourlyOvertimeRate float64, seats int) Overtime {
	deadline := planned.Add(grace)
	if !actual.After(deadline) {
		return Overtime{WithinGrace: true}
	}
	over := actual.Sub(deadline)
	hours := int(math.Ceil(over.Hours()))
	if hours < 1 {
		hours = 1
	}
	return Overtime{
		Hours:  hours,
		Amount: float64(hours) * hourlyOvertimeRate * float64(seats),
	}
}

// Refund is the outcome of a cancellation.
type Refund struct {
	Amount   float64
	Fraction float64
}

// ComputeRefund applies the tiered cancellation policy based on how far in
// advance of check-in the cancellation lands. Boundaries are inclusive on
// the generous side: exactly 24h out still earns the 80% tier.
func ComputeRefund(checkIn, cancelledAt time.Time, totalAmount float64) Refund {
	notice := checkIn.Sub(cancelledAt)
	var frac float64
	switch {
	case notice >= refundTierFull:
		frac = refundFracFull
	case notice >= refundTierHalf:
		frac = refundFracHalf
	case notice >= refundTierLate:
		frac = refundFracLate
	default:
		frac = 0
	}
	return Refund{
		Amount:   roundCents(totalAmount * frac),
		Fraction: frac,
	}
}

// CapRefund bounds an admin override so a booking can never refund more
// than it collected.
func CapRefund(requested, totalAmount float64) float64 {
	if requested < 0 {
		return 0
	}
	if requested > totalAmount {
		return totalAmount
	}
	return roundCents(requested)
}

// ExpectedTotal recomputes the amount invariant a booking must satisfy.
func ExpectedTotal(b *model.Booking) float64 {
	return roundCents(b.BaseAmount + b.CleaningFee + b.Taxes - b.DiscountAmount)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
