package validator

import (
	"errors"
	"fmt"
	"strings"

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

type PropertyValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
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

	log.Info("Property validator initialized successfully")

	return &PropertyValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	return timeslot.ValidClock(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	return timeslot.ValidDate(fl.Field().String())
}

func (v *PropertyValidator) Validate(property *model.Property) error {
	if err := v.validate.Struct(property); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	for i, slot := range property.BookingRules.AllowedTimeSlots {
		if slot.EndTime <= slot.StartTime {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("BookingRules.AllowedTimeSlots[%d]", i),
					Message: fmt.Sprintf("end_time %s must be after start_time %s", slot.EndTime, slot.StartTime),
				},
			}
		}
	}

	if property.Pricing.OvertimeHourlyRate > 0 && property.Pricing.OvertimeHourlyRate < property.Pricing.HourlyRate {
		return ValidationErrors{
			ValidationError{
				Field:   "Pricing.OvertimeHourlyRate",
				Message: "overtime rate cannot undercut the regular hourly rate",
			},
		}
	}

	return nil
}

func (v *PropertyValidator) ValidateUpdate(update *model.PropertyUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.BookingRules != nil {
		for i, slot := range update.BookingRules.AllowedTimeSlots {
			if !timeslot.ValidClock(slot.StartTime) || !timeslot.ValidClock(slot.EndTime) {
				return ValidationErrors{
					ValidationError{
						Field:   fmt.Sprintf("BookingRules.AllowedTimeSlots[%d]", i),
						Message: "slot times must be 24h clock values (HH:MM)",
					},
				}
			}
			if slot.EndTime <= slot.StartTime {
				return ValidationErrors{
					ValidationError{
						Field:   fmt.Sprintf("BookingRules.AllowedTimeSlots[%d]", i),
						Message: fmt.Sprintf("end_time %s must be after start_time %s", slot.EndTime, slot.StartTime),
					},
				}
			}
		}
	}

	return nil
}

func (v *PropertyValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
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
