package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lineup/pkg/logger"
	"lineup/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
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
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock", validateClock); err != nil {
		log.Fatal("Failed to register 'clock' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return clockRegex.MatchString(value)
}

// Validate enforces structural booking rules: tag-level constraints plus the
// mode/field coherence rule that exactly one of queue number and schedule is
// populated, matching the booking mode.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	switch booking.Mode {
	case model.ModeQueue:
		if booking.ScheduledDate != "" || booking.ScheduledTime != "" {
			return ValidationErrors{
				ValidationError{
					Field:   "ScheduledDate",
					Message: "queue bookings cannot carry a schedule",
				},
			}
		}
	case model.ModeAppointment:
		if booking.QueueNumber != nil {
			return ValidationErrors{
				ValidationError{
					Field:   "QueueNumber",
					Message: "appointment bookings cannot carry a queue number",
				},
			}
		}
		if booking.ScheduledDate == "" || booking.ScheduledTime == "" {
			return ValidationErrors{
				ValidationError{
					Field:   "ScheduledDate",
					Message: "appointment bookings require scheduled_date and scheduled_time",
				},
			}
		}
		if !clockRegex.MatchString(booking.ScheduledTime) {
			return ValidationErrors{
				ValidationError{
					Field:   "ScheduledTime",
					Message: "scheduled_time must be in HH:MM format",
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
		case "datetime":
			message = fmt.Sprintf("%s must match the %s format", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
