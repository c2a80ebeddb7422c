// Package events publishes booking lifecycle events to Kafka. Consumers
// downstream (notifications, billing, analytics) key on the property so
// all events for one property land in order on one partition.
package events

import (
	"context"
	"time"

	"deskhive/pkg/kafka"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

const (
	TypeBookingCreated    = "booking.created"
	TypeBookingConfirmed  = "booking.confirmed"
	TypeBookingCheckedIn  = "booking.checked_in"
	TypeBookingCheckedOut = "booking.checked_out"
	TypeBookingExtended   = "booking.extended"
	TypeBookingCompleted  = "booking.completed"
	TypeBookingCancelled  = "booking.cancelled"
	TypeBookingNoShow     = "booking.no_show"
	TypeBookingUpdated    = "booking.updated"
)

// BookingEvent is the wire payload for every lifecycle transition.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	BookingRef   string    `json:"booking_ref"`
	PropertyID   string    `json:"property_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"booking_status"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"`
	TotalAmount  float64   `json:"total_amount"`
	RefundAmount float64   `json:"refund_amount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		BookingID:    booking.ID,
		BookingRef:   booking.BookingRef,
		PropertyID:   booking.PropertyID,
		UserID:       booking.UserID,
		Status:       booking.Status,
		CheckInTime:  booking.CheckInTime,
		CheckOutTime: booking.CheckOutTime,
		TotalAmount:  booking.TotalAmount,
		RefundAmount: booking.RefundAmount,
		OccurredAt:   time.Now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.PropertyID).
		WithValue(event).
		WithEventType(eventType).
		WithSource("bookings-service").
		Build()
	if err != nil {
		return err
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return err
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher discards events. Used when Kafka is disabled and in tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
