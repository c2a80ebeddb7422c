package service

import (
	"context"
	"testing"
	"time"

	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

func storedBooking(status string) *model.Booking {
	b := testBooking()
	b.ID = "507f1f77bcf86cd799439099"
	b.BookingRef = "BK-20260308-AAAAAA"
	b.Status = status
	b.TotalHours = 8
	return b
}

func fixtureWithBooking(now time.Time, b *model.Booking) *serviceFixture {
	f := newFixture(now)
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return b, nil
	}
	return f
}

func wantTransitionError(t *testing.T, err error, operation string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidTransition {
		t.Fatalf("%s: error = %v, want invalid transition", operation, err)
	}
}

func TestConfirm(t *testing.T) {
	b := storedBooking(model.StatusPendingPayment)
	f := fixtureWithBooking(tuesday(8, 0), b)

	got, err := f.svc.Confirm(context.Background(), b.ID, model.PaymentDetails{
		Method:     "card",
		Status:     model.PaymentCompleted,
		AmountPaid: 1750,
	})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if got.Status != model.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
	if got.Payment.AmountPaid != 1750 {
		t.Errorf("amount paid = %.2f, want 1750", got.Payment.AmountPaid)
	}
}

func TestConfirmRejectsPartialPayment(t *testing.T) {
	b := storedBooking(model.StatusPendingPayment)
	f := fixtureWithBooking(tuesday(8, 0), b)

	_, err := f.svc.Confirm(context.Background(), b.ID, model.PaymentDetails{
		Method:     "card",
		Status:     model.PaymentCompleted,
		AmountPaid: 1000,
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("Confirm() error = %v, want validation failure", err)
	}
}

func TestConfirmRejectsIncompletePayment(t *testing.T) {
	b := storedBooking(model.StatusPendingPayment)
	f := fixtureWithBooking(tuesday(8, 0), b)

	_, err := f.svc.Confirm(context.Background(), b.ID, model.PaymentDetails{
		Method:     "card",
		Status:     model.PaymentPending,
		AmountPaid: 1750,
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("Confirm() error = %v, want validation failure", err)
	}
}

// Two pending bookings can cover the same interval; only the first to
// confirm may take the slot.
func TestConfirmRechecksConflicts(t *testing.T) {
	b := storedBooking(model.StatusPendingPayment)
	f := fixtureWithBooking(tuesday(8, 0), b)
	f.repo.findConflictWindowFunc = func(ctx context.Context, propertyID string, from, to time.Time, statuses []string, excludeID string) ([]*model.Booking, error) {
		if excludeID != b.ID {
			t.Errorf("conflict scan excludeID = %q, want %q", excludeID, b.ID)
		}
		return []*model.Booking{{
			ID:           "507f1f77bcf86cd799439055",
			UserID:       "507f1f77bcf86cd799439044",
			Status:       model.StatusConfirmed,
			CheckInTime:  tuesday(9, 0),
			CheckOutTime: tuesday(17, 0),
		}}, nil
	}

	var updateCalled bool
	f.repo.updateFunc = func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
		updateCalled = true
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}

	_, err := f.svc.Confirm(context.Background(), b.ID, model.PaymentDetails{
		Method: "card", Status: model.PaymentCompleted, AmountPaid: 1750,
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("Confirm() error = %v, want conflict against the rival booking", err)
	}
	if appErr.Details["rule"] != "overlap" {
		t.Errorf("rule = %v, want overlap", appErr.Details["rule"])
	}
	if updateCalled {
		t.Error("Confirm wrote to the store despite the conflict")
	}
	if len(f.locks.locks) != 0 {
		t.Error("property lock was not released")
	}
}

func TestConfirmFromWrongStatus(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	f := fixtureWithBooking(tuesday(8, 0), b)

	_, err := f.svc.Confirm(context.Background(), b.ID, model.PaymentDetails{
		Method: "card", Status: model.PaymentCompleted, AmountPaid: 1750,
	})
	wantTransitionError(t, err, "confirm")
}

func TestCheckIn(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	now := tuesday(9, 2)
	f := fixtureWithBooking(now, b)

	got, err := f.svc.CheckIn(context.Background(), b.ID, nil)
	if err != nil {
		t.Fatalf("CheckIn() error = %v", err)
	}
	if got.Status != model.StatusCheckedIn {
		t.Errorf("status = %q, want checked_in", got.Status)
	}
	if got.ActualCheckInTime == nil || !got.ActualCheckInTime.Equal(now) {
		t.Errorf("actual check-in = %v, want %v", got.ActualCheckInTime, now)
	}
}

func TestCheckInWithSuppliedTime(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	f := fixtureWithBooking(tuesday(9, 30), b)

	// A turnstile sync reports the arrival a few minutes in the past.
	arrived := tuesday(9, 4)
	got, err := f.svc.CheckIn(context.Background(), b.ID, &arrived)
	if err != nil {
		t.Fatalf("CheckIn() error = %v", err)
	}
	if got.ActualCheckInTime == nil || !got.ActualCheckInTime.Equal(arrived) {
		t.Errorf("actual check-in = %v, want the supplied %v", got.ActualCheckInTime, arrived)
	}
}

func TestCheckInFromWrongStatus(t *testing.T) {
	for _, status := range []string{
		model.StatusPendingPayment,
		model.StatusCheckedIn,
		model.StatusCancelled,
		model.StatusCompleted,
	} {
		b := storedBooking(status)
		f := fixtureWithBooking(tuesday(9, 0), b)
		_, err := f.svc.CheckIn(context.Background(), b.ID, nil)
		wantTransitionError(t, err, "check-in from "+status)
	}
}

func TestCheckOutWithinGrace(t *testing.T) {
	b := storedBooking(model.StatusCheckedIn)
	checkedIn := tuesday(9, 0)
	b.ActualCheckInTime = &checkedIn

	// 17:00 planned checkout, 15 minute grace: 17:10 is clean.
	now := tuesday(17, 10)
	f := fixtureWithBooking(now, b)

	result, err := f.svc.CheckOut(context.Background(), b.ID, nil)
	if err != nil {
		t.Fatalf("CheckOut() error = %v", err)
	}
	if result.NewStatus != model.StatusCheckedOut {
		t.Errorf("new status = %q, want checked_out", result.NewStatus)
	}
	if result.OvertimeDue != 0 {
		t.Errorf("overtime due = %.2f, want 0", result.OvertimeDue)
	}
	if result.Booking.ActualCheckOutTime == nil || !result.Booking.ActualCheckOutTime.Equal(now) {
		t.Error("actual checkout time was not recorded")
	}
}

func TestCheckOutPastGrace(t *testing.T) {
	b := storedBooking(model.StatusCheckedIn)
	checkedIn := tuesday(9, 0)
	b.ActualCheckInTime = &checkedIn

	// 19:05 against a 17:15 deadline: 1h50m over, charged as 2 hours at
	// the 150/hr overtime rate for 2 seats.
	now := tuesday(19, 5)
	f := fixtureWithBooking(now, b)

	result, err := f.svc.CheckOut(context.Background(), b.ID, nil)
	if err != nil {
		t.Fatalf("CheckOut() error = %v", err)
	}
	if result.NewStatus != model.StatusExtended {
		t.Errorf("new status = %q, want extended", result.NewStatus)
	}
	if result.OvertimeHours != 2 {
		t.Errorf("overtime hours = %d, want 2", result.OvertimeHours)
	}
	if result.OvertimeDue != 600 {
		t.Errorf("overtime due = %.2f, want 600 (2h x 150 x 2 seats)", result.OvertimeDue)
	}
	if result.Booking.Overtime == nil || result.Booking.Overtime.PaymentStatus != model.PaymentPending {
		t.Error("overtime charge was not recorded as pending")
	}
}

func TestCheckOutReplayIsIdempotent(t *testing.T) {
	actual := tuesday(17, 5)
	b := storedBooking(model.StatusCheckedOut)
	b.ActualCheckOutTime = &actual
	b.Overtime = &model.OvertimeDetails{WithinGrace: true}

	f := fixtureWithBooking(tuesday(17, 30), b)

	var updateCalled bool
	f.repo.updateFunc = func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
		updateCalled = true
		return nil, nil
	}

	result, err := f.svc.CheckOut(context.Background(), b.ID, nil)
	if err != nil {
		t.Fatalf("CheckOut() replay error = %v", err)
	}
	if result.NewStatus != model.StatusCheckedOut {
		t.Errorf("replay status = %q, want checked_out", result.NewStatus)
	}
	if !result.Booking.ActualCheckOutTime.Equal(actual) {
		t.Error("replay changed the recorded checkout time")
	}
	if updateCalled {
		t.Error("replay wrote to the store")
	}
}

func TestCheckOutFromWrongStatus(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	f := fixtureWithBooking(tuesday(17, 0), b)
	_, err := f.svc.CheckOut(context.Background(), b.ID, nil)
	wantTransitionError(t, err, "check-out")
}

func TestComplete(t *testing.T) {
	b := storedBooking(model.StatusCheckedOut)
	f := fixtureWithBooking(tuesday(18, 0), b)

	got, err := f.svc.Complete(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestSettleOvertime(t *testing.T) {
	b := storedBooking(model.StatusExtended)
	b.Overtime = &model.OvertimeDetails{Hours: 2, Amount: 600, PaymentStatus: model.PaymentPending}
	f := fixtureWithBooking(tuesday(20, 0), b)

	got, err := f.svc.SettleOvertime(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("SettleOvertime() error = %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.Overtime.PaymentStatus != model.PaymentCompleted {
		t.Errorf("overtime payment = %q, want completed", got.Overtime.PaymentStatus)
	}
}

func TestSettleOvertimeFromWrongStatus(t *testing.T) {
	b := storedBooking(model.StatusCheckedOut)
	f := fixtureWithBooking(tuesday(20, 0), b)
	_, err := f.svc.SettleOvertime(context.Background(), b.ID)
	wantTransitionError(t, err, "settle-overtime")
}

func TestCancelRefundTiers(t *testing.T) {
	tests := []struct {
		name       string
		cancelAt   time.Time
		wantRefund float64
		wantFrac   float64
	}{
		{"two days ahead", tuesday(9, 0).AddDate(0, 0, -2), 1400, 0.80},
		{"eighteen hours ahead", tuesday(9, 0).Add(-18 * time.Hour), 875, 0.50},
		{"six hours ahead", tuesday(3, 0), 437.50, 0.25},
		{"one hour ahead", tuesday(8, 0), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := storedBooking(model.StatusConfirmed)
			b.Payment.Status = model.PaymentCompleted
			b.Payment.AmountPaid = 1750
			f := fixtureWithBooking(tt.cancelAt, b)

			result, err := f.svc.Cancel(context.Background(), b.ID, "plans changed", nil)
			if err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if result.RefundAmount != tt.wantRefund {
				t.Errorf("refund = %.2f, want %.2f", result.RefundAmount, tt.wantRefund)
			}
			if result.RefundFraction != tt.wantFrac {
				t.Errorf("fraction = %.2f, want %.2f", result.RefundFraction, tt.wantFrac)
			}
			if result.Booking.Status != model.StatusCancelled {
				t.Errorf("status = %q, want cancelled", result.Booking.Status)
			}
			if result.Booking.CancellationDate == nil {
				t.Error("cancellation date was not recorded")
			}
		})
	}
}

func TestCancelOverrideIsCapped(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	b.Payment.Status = model.PaymentCompleted
	b.Payment.AmountPaid = 1750
	f := fixtureWithBooking(tuesday(8, 0), b)

	override := 5000.0
	result, err := f.svc.Cancel(context.Background(), b.ID, "goodwill", &override)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if result.RefundAmount != 1750 {
		t.Errorf("refund = %.2f, want capped at 1750", result.RefundAmount)
	}
	if result.Booking.Payment.Status != model.PaymentRefunded {
		t.Errorf("payment status = %q, want refunded", result.Booking.Payment.Status)
	}
}

func TestCancelUnpaidBookingRefundsNothing(t *testing.T) {
	b := storedBooking(model.StatusPendingPayment)
	f := fixtureWithBooking(tuesday(9, 0).AddDate(0, 0, -2), b)

	result, err := f.svc.Cancel(context.Background(), b.ID, "never paid", nil)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if result.RefundAmount != 0 {
		t.Errorf("refund = %.2f, want 0 for an unpaid booking", result.RefundAmount)
	}
	if result.Booking.Payment.Status != model.PaymentPending {
		t.Errorf("payment status = %q, want untouched", result.Booking.Payment.Status)
	}
}

func TestCancelNormalizesReason(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	f := fixtureWithBooking(tuesday(8, 0), b)

	result, err := f.svc.Cancel(context.Background(), b.ID, "  plans \t changed\n", nil)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if result.Booking.CancellationReason != "plans changed" {
		t.Errorf("reason = %q, want normalized whitespace", result.Booking.CancellationReason)
	}
}

func TestCancelFromWrongStatus(t *testing.T) {
	for _, status := range []string{
		model.StatusCheckedIn,
		model.StatusExtended,
		model.StatusCompleted,
		model.StatusCancelled,
	} {
		b := storedBooking(status)
		f := fixtureWithBooking(tuesday(8, 0), b)
		_, err := f.svc.Cancel(context.Background(), b.ID, "too late", nil)
		wantTransitionError(t, err, "cancel from "+status)
	}
}

func TestMarkNoShow(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	f := fixtureWithBooking(tuesday(10, 0), b)

	got, err := f.svc.MarkNoShow(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("MarkNoShow() error = %v", err)
	}
	if got.Status != model.StatusNoShow {
		t.Errorf("status = %q, want no_show", got.Status)
	}
}

func TestMarkNoShowBeforeCheckInTime(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	f := fixtureWithBooking(tuesday(8, 0), b)

	_, err := f.svc.MarkNoShow(context.Background(), b.ID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("MarkNoShow() error = %v, want validation failure", err)
	}
}

func TestRefundPreviewDoesNotMutate(t *testing.T) {
	b := storedBooking(model.StatusConfirmed)
	b.Payment.Status = model.PaymentCompleted
	b.Payment.AmountPaid = 1750

	f := fixtureWithBooking(tuesday(9, 0).AddDate(0, 0, -2), b)
	var updateCalled bool
	f.repo.updateFunc = func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
		updateCalled = true
		return nil, nil
	}

	quote, err := f.svc.RefundPreview(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("RefundPreview() error = %v", err)
	}
	if quote.RefundAmount != 1400 || quote.RefundFraction != 0.80 {
		t.Errorf("quote = %.2f at %.2f, want 1400 at 0.80", quote.RefundAmount, quote.RefundFraction)
	}
	if b.Status != model.StatusConfirmed {
		t.Error("preview changed the booking status")
	}
	if updateCalled {
		t.Error("preview wrote to the store")
	}
}
