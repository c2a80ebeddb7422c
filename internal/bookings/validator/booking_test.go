package validator

import (
	"io"
	"testing"
	"time"

	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard, Service: "test"})
}

func validBooking() *model.Booking {
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		BookingRef:      "BK-20260310-ABC123",
		PropertyID:      "507f1f77bcf86cd799439011",
		PropertyOwnerID: "507f1f77bcf86cd799439012",
		UserID:          "507f1f77bcf86cd799439013",
		CheckInTime:     checkIn,
		CheckOutTime:    checkIn.Add(8 * time.Hour),
		Seats:           2,
		TotalHours:      8,
		BaseAmount:      800,
		CleaningFee:     50,
		Taxes:           144.50,
		DiscountAmount:  0,
		TotalAmount:     994.50,
		Payment: model.PaymentDetails{
			Method: "card",
			Status: model.PaymentPending,
		},
		Status: model.StatusPendingPayment,
	}
}

func TestValidateAcceptsValidBooking(t *testing.T) {
	v := NewBookingValidator(testLogger(), 0.25)
	if err := v.Validate(validBooking()); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Booking)
	}{
		{
			name:   "missing property id",
			mutate: func(b *model.Booking) { b.PropertyID = "" },
		},
		{
			name:   "malformed property id",
			mutate: func(b *model.Booking) { b.PropertyID = "not-an-objectid" },
		},
		{
			name:   "checkout before checkin",
			mutate: func(b *model.Booking) { b.CheckOutTime = b.CheckInTime.Add(-time.Hour) },
		},
		{
			name:   "zero seats",
			mutate: func(b *model.Booking) { b.Seats = 0 },
		},
		{
			name:   "unknown status",
			mutate: func(b *model.Booking) { b.Status = "sleeping" },
		},
		{
			name: "interval spanning midnight",
			mutate: func(b *model.Booking) {
				b.CheckInTime = time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
				b.CheckOutTime = time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)
				b.TotalHours = 4
			},
		},
		{
			name: "duration below minimum",
			mutate: func(b *model.Booking) {
				b.CheckOutTime = b.CheckInTime.Add(10 * time.Minute)
				b.TotalHours = 10.0 / 60.0
			},
		},
		{
			name:   "total hours out of step with the interval",
			mutate: func(b *model.Booking) { b.TotalHours = 3 },
		},
		{
			name:   "total amount breaks the charge equation",
			mutate: func(b *model.Booking) { b.TotalAmount = 900 },
		},
		{
			name: "completed payment with mismatched amount",
			mutate: func(b *model.Booking) {
				b.Payment.Status = model.PaymentCompleted
				b.Payment.AmountPaid = 500
			},
		},
		{
			name:   "negative discount",
			mutate: func(b *model.Booking) { b.DiscountAmount = -5 },
		},
	}

	v := NewBookingValidator(testLogger(), 0.25)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			if err := v.Validate(b); err == nil {
				t.Error("Validate() = nil, want an error")
			}
		})
	}
}

func TestValidateToleratesCentRounding(t *testing.T) {
	v := NewBookingValidator(testLogger(), 0.25)
	b := validBooking()
	b.TotalAmount = 994.505
	if err := v.Validate(b); err != nil {
		t.Errorf("Validate() = %v, want half-cent drift to pass", err)
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger(), 0.25)
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(4 * time.Hour)
	badOut := checkIn.Add(-time.Hour)
	nextDay := checkIn.Add(26 * time.Hour)

	tests := []struct {
		name    string
		update  *model.BookingUpdate
		wantErr bool
	}{
		{"empty update", &model.BookingUpdate{}, false},
		{"valid window change", &model.BookingUpdate{CheckInTime: &checkIn, CheckOutTime: &checkOut}, false},
		{"checkout before checkin", &model.BookingUpdate{CheckInTime: &checkIn, CheckOutTime: &badOut}, true},
		{"window crossing days", &model.BookingUpdate{CheckInTime: &checkIn, CheckOutTime: &nextDay}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
