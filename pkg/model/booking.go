package model

import (
	"time"
)

// Booking statuses. A booking holds its slot only once it has progressed
// past payment: pending_payment never blocks other candidates.
const (
	StatusPendingPayment = "pending_payment"
	StatusConfirmed      = "confirmed"
	StatusCheckedIn      = "checked_in"
	StatusCheckedOut     = "checked_out"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusNoShow         = "no_show"
	StatusExtended       = "extended"
)

// Payment statuses.
const (
	PaymentPending           = "pending"
	PaymentCompleted         = "completed"
	PaymentFailed            = "failed"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
)

type PaymentDetails struct {
	Method     string  `json:"method" bson:"method" validate:"omitempty,oneof=wallet card upi netbanking"`
	Status     string  `json:"status" bson:"status" validate:"required,oneof=pending completed failed refunded partially_refunded"`
	AmountPaid float64 `json:"amount_paid" bson:"amount_paid" validate:"gte=0"`
}

// OvertimeDetails is populated only when a checkout past the grace period
// actually incurred a charge.
type OvertimeDetails struct {
	Hours         int     `json:"hours" bson:"hours"`
	Amount        float64 `json:"amount" bson:"amount"`
	PaymentStatus string  `json:"payment_status" bson:"payment_status"`
	WithinGrace   bool    `json:"within_grace" bson:"within_grace"`
}

type Booking struct {
	ID              string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingRef      string `json:"booking_ref" bson:"booking_ref" validate:"omitempty,min=10,max=40"`
	PropertyID      string `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	PropertyOwnerID string `json:"property_owner_id" bson:"property_owner_id" validate:"omitempty,mongodb"`
	UserID          string `json:"user_id" bson:"user_id" validate:"required,mongodb"`

	CheckInTime        time.Time  `json:"check_in_time" bson:"check_in_time" validate:"required"`
	CheckOutTime       time.Time  `json:"check_out_time" bson:"check_out_time" validate:"required,gtfield=CheckInTime"`
	ActualCheckInTime  *time.Time `json:"actual_check_in_time,omitempty" bson:"actual_check_in_time,omitempty"`
	ActualCheckOutTime *time.Time `json:"actual_check_out_time,omitempty" bson:"actual_check_out_time,omitempty"`

	Seats      int     `json:"seats" bson:"seats" validate:"required,min=1,max=500"`
	TotalHours float64 `json:"total_hours" bson:"total_hours" validate:"omitempty,gte=0"`

	BaseAmount     float64 `json:"base_amount" bson:"base_amount" validate:"gte=0"`
	CleaningFee    float64 `json:"cleaning_fee" bson:"cleaning_fee" validate:"gte=0"`
	Taxes          float64 `json:"taxes" bson:"taxes" validate:"gte=0"`
	DiscountAmount float64 `json:"discount_amount" bson:"discount_amount" validate:"gte=0"`
	TotalAmount    float64 `json:"total_amount" bson:"total_amount" validate:"gte=0"`

	Payment PaymentDetails `json:"payment_details" bson:"payment_details"`

	Status   string           `json:"booking_status" bson:"booking_status" validate:"required,oneof=pending_payment confirmed checked_in checked_out completed cancelled no_show extended"`
	Overtime *OvertimeDetails `json:"overtime_details,omitempty" bson:"overtime_details,omitempty"`

	RefundAmount       float64    `json:"refund_amount" bson:"refund_amount" validate:"gte=0"`
	CancellationReason string     `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	CancellationDate   *time.Time `json:"cancellation_date,omitempty" bson:"cancellation_date,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingUpdate carries the fields a caller may edit while the booking is
// still in pending_payment or confirmed. Every accepted edit re-runs the
// availability and conflict checks.
type BookingUpdate struct {
	CheckInTime    *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time `json:"check_out_time,omitempty"`
	Seats          *int       `json:"seats,omitempty" validate:"omitempty,min=1,max=500"`
	BaseAmount     *float64   `json:"base_amount,omitempty" validate:"omitempty,gte=0"`
	CleaningFee    *float64   `json:"cleaning_fee,omitempty" validate:"omitempty,gte=0"`
	Taxes          *float64   `json:"taxes,omitempty" validate:"omitempty,gte=0"`
	DiscountAmount *float64   `json:"discount_amount,omitempty" validate:"omitempty,gte=0"`
	TotalAmount    *float64   `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
}

// Cancellable reports whether the booking may still be cancelled. Only
// pre-check-in states qualify; later states must go through checkout.
func (b *Booking) Cancellable() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// Editable reports whether time or amount changes are still accepted.
func (b *Booking) Editable() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}
