package model

import "time"

// Property statuses. Only active properties accept bookings.
const (
	PropertyActive      = "active"
	PropertyInactive    = "inactive"
	PropertyMaintenance = "maintenance"
)

// TimeSlot is one allowed weekday booking window. Times are fixed-width
// HH:MM strings; Day is an English weekday name.
type TimeSlot struct {
	Day         string `json:"day" bson:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime   string `json:"start_time" bson:"start_time" validate:"required,clock_hhmm"`
	EndTime     string `json:"end_time" bson:"end_time" validate:"required,clock_hhmm"`
	IsAvailable bool   `json:"is_available" bson:"is_available"`
}

type BookingRules struct {
	AllowedTimeSlots       []TimeSlot `json:"allowed_time_slots" bson:"allowed_time_slots" validate:"omitempty,dive"`
	CheckoutGracePeriodMin int        `json:"checkout_grace_period_min" bson:"checkout_grace_period_min" validate:"gte=0,lte=240"`
}

type Pricing struct {
	HourlyRate         float64 `json:"hourly_rate" bson:"hourly_rate" validate:"required,gt=0"`
	OvertimeHourlyRate float64 `json:"overtime_hourly_rate,omitempty" bson:"overtime_hourly_rate,omitempty" validate:"omitempty,gt=0"`
}

// Property is the canonical availability configuration the booking engine
// reads. The full property record (photos, amenities, address) lives with
// the property CRUD outside this core.
type Property struct {
	ID               string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID          string       `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Name             string       `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Status           string       `json:"property_status" bson:"property_status" validate:"required,oneof=active inactive maintenance"`
	SeatingCapacity  int          `json:"seating_capacity" bson:"seating_capacity" validate:"required,min=1,max=500"`
	UnavailableDates []string     `json:"unavailable_dates,omitempty" bson:"unavailable_dates,omitempty" validate:"omitempty,dive,date_ymd"`
	BookingRules     BookingRules `json:"booking_rules" bson:"booking_rules"`
	Pricing          Pricing      `json:"pricing" bson:"pricing"`
	CreatedAt        time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// PropertyUpdate carries partial updates to the availability configuration.
type PropertyUpdate struct {
	Name             string        `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Status           string        `json:"property_status,omitempty" validate:"omitempty,oneof=active inactive maintenance"`
	SeatingCapacity  *int          `json:"seating_capacity,omitempty" validate:"omitempty,min=1,max=500"`
	UnavailableDates *[]string     `json:"unavailable_dates,omitempty" validate:"omitempty,dive,date_ymd"`
	BookingRules     *BookingRules `json:"booking_rules,omitempty"`
	Pricing          *Pricing      `json:"pricing,omitempty"`
}

// DefaultOvertimeMultiplier derives the overtime rate when a property has
// not configured one explicitly.
const DefaultOvertimeMultiplier = 1.5

// OvertimeRate returns the configured overtime hourly rate, falling back to
// 1.5x the regular hourly rate.
func (p *Property) OvertimeRate() float64 {
	if p.Pricing.OvertimeHourlyRate > 0 {
		return p.Pricing.OvertimeHourlyRate
	}
	return p.Pricing.HourlyRate * DefaultOvertimeMultiplier
}

// DateBlocked reports whether the given YYYY-MM-DD date is in the
// property's unavailable set.
func (p *Property) DateBlocked(date string) bool {
	for _, d := range p.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}
