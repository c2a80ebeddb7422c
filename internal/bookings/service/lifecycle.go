package service

import (
	"context"
	"math"
	"time"

	"deskhive/internal/bookings/engine"
	"deskhive/internal/bookings/events"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"
	"deskhive/pkg/sanitizer"
)

// CheckOutResult reports what a checkout produced: the persisted booking,
// the overtime charge (zero when within grace) and the status it landed in.
type CheckOutResult struct {
	Booking       *model.Booking `json:"booking"`
	OvertimeHours int            `json:"overtime_hours"`
	OvertimeDue   float64        `json:"overtime_due"`
	NewStatus     string         `json:"new_status"`
}

// CancelResult reports the refund a cancellation produced.
type CancelResult struct {
	Booking        *model.Booking `json:"booking"`
	RefundAmount   float64        `json:"refund_amount"`
	RefundFraction float64        `json:"refund_fraction"`
}

// RefundQuote is a dry-run cancellation quote at the current time.
type RefundQuote struct {
	BookingID      string    `json:"booking_id"`
	TotalAmount    float64   `json:"total_amount"`
	RefundAmount   float64   `json:"refund_amount"`
	RefundFraction float64   `json:"refund_fraction"`
	QuotedAt       time.Time `json:"quoted_at"`
}

// Confirm moves a booking out of pending_payment once payment has cleared.
// The reported payment must be completed and match the booking total.
//
// Pending bookings do not hold their slot, so two of them may cover the same
// interval. The winner is decided here: the slot is re-checked under the
// property lock before the status flips, and the loser's payment stays
// refundable via Cancel.
func (s *bookingService) Confirm(ctx context.Context, id string, payment model.PaymentDetails) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusPendingPayment {
		return nil, apperrors.InvalidTransition("confirm", booking.Status)
	}
	if payment.Status != model.PaymentCompleted {
		return nil, apperrors.Validation("Payment must be completed to confirm a booking",
			map[string]any{"payment_status": payment.Status})
	}
	if math.Abs(payment.AmountPaid-booking.TotalAmount) > config.AmountTolerance {
		return nil, apperrors.Validation("Paid amount does not match the booking total",
			map[string]any{"amount_paid": payment.AmountPaid, "total_amount": booking.TotalAmount})
	}

	lockID, err := s.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release property lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking.Payment = payment
	booking.Status = model.StatusConfirmed
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoConflicts(txCtx, booking, booking.ID); err != nil {
			return err
		}
		if _, err := s.repo.Update(txCtx, id, booking); err != nil {
			return s.mapRepoError(err, id)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeBookingConfirmed, booking)
	s.cfg.Log.Info("Booking confirmed", "id", id, "booking_ref", booking.BookingRef)
	return booking, nil
}

// CheckIn records arrival. The caller may supply the actual arrival time;
// when absent the clock's current time is stamped.
func (s *bookingService) CheckIn(ctx context.Context, id string, actualTime *time.Time) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusConfirmed {
		return nil, apperrors.InvalidTransition("check-in", booking.Status)
	}

	now := s.clock.Now().UTC()
	if actualTime != nil {
		now = actualTime.UTC()
	}
	booking.ActualCheckInTime = &now
	booking.Status = model.StatusCheckedIn
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	s.publish(ctx, events.TypeBookingCheckedIn, booking)
	s.cfg.Log.Info("Booking checked in", "id", id, "actual_check_in_time", now)
	return booking, nil
}

// CheckOut records the actual departure. Within the property's grace period
// the booking goes to checked_out with no charge; past it the booking goes
// to extended carrying a pending overtime charge of whole ceiled hours.
//
// Replaying a checkout that already happened returns the recorded outcome
// unchanged, so retried requests stay safe.
func (s *bookingService) CheckOut(ctx context.Context, id string, actualTime *time.Time) (*CheckOutResult, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.StatusCheckedIn:
	case model.StatusCheckedOut, model.StatusExtended, model.StatusCompleted:
		return checkOutResultOf(booking), nil
	default:
		return nil, apperrors.InvalidTransition("check-out", booking.Status)
	}

	actual := s.clock.Now().UTC()
	if actualTime != nil {
		actual = actualTime.UTC()
	}
	if booking.ActualCheckInTime != nil && actual.Before(*booking.ActualCheckInTime) {
		return nil, apperrors.InvalidInput("Checkout time cannot precede the actual check-in time")
	}

	property, err := s.loadProperty(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}

	overtime := engine.ComputeOvertime(
		booking.CheckOutTime,
		actual,
		s.graceFor(property),
		property.OvertimeRate(),
		booking.Seats,
	)

	booking.ActualCheckOutTime = &actual
	if overtime.WithinGrace {
		booking.Status = model.StatusCheckedOut
		booking.Overtime = &model.OvertimeDetails{WithinGrace: true}
	} else {
		booking.Status = model.StatusExtended
		booking.Overtime = &model.OvertimeDetails{
			Hours:         overtime.Hours,
			Amount:        overtime.Amount,
			PaymentStatus: model.PaymentPending,
		}
	}

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	if booking.Status == model.StatusExtended {
		s.publish(ctx, events.TypeBookingExtended, booking)
		s.cfg.Log.Info("Booking extended past checkout",
			"id", id,
			"overtime_hours", overtime.Hours,
			"overtime_amount", overtime.Amount,
		)
	} else {
		s.publish(ctx, events.TypeBookingCheckedOut, booking)
		s.cfg.Log.Info("Booking checked out", "id", id, "actual_check_out_time", actual)
	}

	return checkOutResultOf(booking), nil
}

func checkOutResultOf(booking *model.Booking) *CheckOutResult {
	result := &CheckOutResult{Booking: booking, NewStatus: booking.Status}
	if booking.Overtime != nil && !booking.Overtime.WithinGrace {
		result.OvertimeHours = booking.Overtime.Hours
		result.OvertimeDue = booking.Overtime.Amount
	}
	return result
}

// Complete closes out a clean checkout after the space has been turned over.
func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCompleted {
		return booking, nil
	}
	if booking.Status != model.StatusCheckedOut {
		return nil, apperrors.InvalidTransition("complete", booking.Status)
	}

	booking.Status = model.StatusCompleted
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	s.publish(ctx, events.TypeBookingCompleted, booking)
	s.cfg.Log.Info("Booking completed", "id", id)
	return booking, nil
}

// SettleOvertime records payment of a pending overtime charge and closes
// the booking.
func (s *bookingService) SettleOvertime(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusExtended {
		return nil, apperrors.InvalidTransition("settle-overtime", booking.Status)
	}
	if booking.Overtime == nil {
		return nil, apperrors.Internal("Extended booking has no overtime record", nil)
	}

	booking.Overtime.PaymentStatus = model.PaymentCompleted
	booking.Status = model.StatusCompleted
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	s.publish(ctx, events.TypeBookingCompleted, booking)
	s.cfg.Log.Info("Overtime settled", "id", id, "overtime_amount", booking.Overtime.Amount)
	return booking, nil
}

// Cancel applies the tiered refund policy, or an explicit override amount
// for support-driven cancellations. Overrides are capped at what the
// booking collected.
func (s *bookingService) Cancel(ctx context.Context, id string, reason string, overrideRefund *float64) (*CancelResult, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Cancellable() {
		return nil, apperrors.InvalidTransition("cancel", booking.Status)
	}

	now := s.clock.Now().UTC()

	var refund engine.Refund
	if booking.Payment.Status == model.PaymentCompleted {
		if overrideRefund != nil {
			refund = engine.Refund{Amount: engine.CapRefund(*overrideRefund, booking.TotalAmount)}
		} else {
			refund = engine.ComputeRefund(booking.CheckInTime, now, booking.TotalAmount)
		}
	}

	booking.Status = model.StatusCancelled
	booking.RefundAmount = refund.Amount
	booking.CancellationReason = sanitizer.NormalizeReason(reason)
	booking.CancellationDate = &now

	if booking.Payment.Status == model.PaymentCompleted {
		switch {
		case refund.Amount >= booking.TotalAmount:
			booking.Payment.Status = model.PaymentRefunded
		case refund.Amount > 0:
			booking.Payment.Status = model.PaymentPartiallyRefunded
		}
	}

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	s.publish(ctx, events.TypeBookingCancelled, booking)
	s.cfg.Log.Info("Booking cancelled",
		"id", id,
		"refund_amount", refund.Amount,
		"reason", booking.CancellationReason,
	)

	return &CancelResult{
		Booking:        booking,
		RefundAmount:   refund.Amount,
		RefundFraction: refund.Fraction,
	}, nil
}

// MarkNoShow flags a booking whose guest never arrived. No refund applies;
// the slot is freed for the remainder of its window.
func (s *bookingService) MarkNoShow(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusPendingPayment && booking.Status != model.StatusConfirmed {
		return nil, apperrors.InvalidTransition("no-show", booking.Status)
	}
	if s.clock.Now().Before(booking.CheckInTime) {
		return nil, apperrors.Validation("Cannot mark a no-show before the booked check-in time",
			map[string]any{"check_in_time": booking.CheckInTime})
	}

	booking.Status = model.StatusNoShow
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	s.publish(ctx, events.TypeBookingNoShow, booking)
	s.cfg.Log.Info("Booking marked as no-show", "id", id)
	return booking, nil
}

// RefundPreview quotes the refund a cancellation would earn right now,
// without touching the booking.
func (s *bookingService) RefundPreview(ctx context.Context, id string) (*RefundQuote, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Cancellable() {
		return nil, apperrors.InvalidTransition("refund-preview", booking.Status)
	}

	now := s.clock.Now().UTC()
	var refund engine.Refund
	if booking.Payment.Status == model.PaymentCompleted {
		refund = engine.ComputeRefund(booking.CheckInTime, now, booking.TotalAmount)
	}

	return &RefundQuote{
		BookingID:      booking.ID,
		TotalAmount:    booking.TotalAmount,
		RefundAmount:   refund.Amount,
		RefundFraction: refund.Fraction,
		QuotedAt:       now,
	}, nil
}

func (s *bookingService) graceFor(property *model.Property) time.Duration {
	minutes := property.BookingRules.CheckoutGracePeriodMin
	if minutes <= 0 {
		minutes = s.cfg.CheckoutGraceMin
	}
	return time.Duration(minutes) * time.Minute
}
