package validator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"deskhive/pkg/config"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
	"deskhive/pkg/timeslot"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate        *validator.Validate
	logger          *logger.Logger
	minBookingHours float64
}

func NewBookingValidator(log *logger.Logger, minBookingHours float64) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_hhmm", validateClock); err != nil {
		log.Fatal("Failed to register 'clock_hhmm' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("date_ymd", validateDate); err != nil {
		log.Fatal("Failed to register 'date_ymd' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate:        v,
		logger:          log,
		minBookingHours: minBookingHours,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	return timeslot.ValidClock(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	return timeslot.ValidDate(fl.Field().String())
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !timeslot.SameDay(booking.CheckInTime, booking.CheckOutTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOutTime",
				Message: "check_in_time and check_out_time must fall on the same calendar day",
			},
		}
	}

	duration := booking.CheckOutTime.Sub(booking.CheckInTime).Hours()
	if duration < v.minBookingHours {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOutTime",
				Message: fmt.Sprintf("booking duration %.2fh is below the minimum of %.2fh", duration, v.minBookingHours),
			},
		}
	}

	if math.Abs(booking.TotalHours-duration) > config.AmountTolerance {
		return ValidationErrors{
			ValidationError{
				Field:   "TotalHours",
				Message: fmt.Sprintf("total_hours (%.2f) does not match the booked interval (%.2fh)", booking.TotalHours, duration),
			},
		}
	}

	expected := booking.BaseAmount + booking.CleaningFee + booking.Taxes - booking.DiscountAmount
	if math.Abs(booking.TotalAmount-expected) > config.AmountTolerance {
		return ValidationErrors{
			ValidationError{
				Field:   "TotalAmount",
				Message: fmt.Sprintf("total_amount (%.2f) does not equal base + cleaning + taxes - discount (%.2f)", booking.TotalAmount, expected),
			},
		}
	}

	if booking.Payment.Status == model.PaymentCompleted &&
		math.Abs(booking.Payment.AmountPaid-booking.TotalAmount) > config.AmountTolerance {
		return ValidationErrors{
			ValidationError{
				Field:   "Payment.AmountPaid",
				Message: fmt.Sprintf("amount_paid (%.2f) does not match total_amount (%.2f) for a completed payment", booking.Payment.AmountPaid, booking.TotalAmount),
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.CheckInTime != nil && update.CheckOutTime != nil {
		if !update.CheckOutTime.After(*update.CheckInTime) {
			return ValidationErrors{
				ValidationError{
					Field:   "CheckOutTime",
					Message: "check_out_time must be after check_in_time",
				},
			}
		}
		if !timeslot.SameDay(*update.CheckInTime, *update.CheckOutTime) {
			return ValidationErrors{
				ValidationError{
					Field:   "CheckOutTime",
					Message: "check_in_time and check_out_time must fall on the same calendar day",
				},
			}
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "clock_hhmm":
			message = fmt.Sprintf("%s must be a 24h clock value (HH:MM)", err.Field())
		case "date_ymd":
			message = fmt.Sprintf("%s must be a calendar date (YYYY-MM-DD)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
