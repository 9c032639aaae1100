package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wayfare/pkg/logger"
	"wayfare/pkg/model"

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

// ConfirmInput carries the parsed fields of a confirmation request that
// need conversion before they can populate a Booking.
type ConfirmInput struct {
	Travelers int
	StartDate time.Time
	EndDate   time.Time
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateConfirm checks the shape of a confirmation request and parses
// the loosely-typed fields. Travelers arrives as a string or a number
// depending on the client; dates arrive as "YYYY-MM-DD".
func (v *BookingValidator) ValidateConfirm(req *model.ConfirmBookingRequest) (*ConfirmInput, error) {
	var errs ValidationErrors

	requireField := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)})
		}
	}

	requireField("orderId", req.OrderID)
	requireField("userId", req.UserID)
	requireField("packageId", req.PackageID)
	requireField("agencyId", req.AgencyID)
	requireField("destination", req.Destination)
	requireField("packageTitle", req.PackageTitle)
	requireField("booking.bookingId", req.Booking.BookingID)
	requireField("booking.fullName", req.Booking.FullName)
	requireField("booking.email", req.Booking.Email)
	requireField("booking.phoneNumber", req.Booking.PhoneNumber)

	if req.Amount <= 0 {
		errs = append(errs, ValidationError{Field: "amount", Message: "amount must be positive"})
	}

	travelers, err := req.Booking.NumberOfTravelers.Int()
	if err != nil {
		errs = append(errs, ValidationError{Field: "booking.numberOfTravelers", Message: "numberOfTravelers must be an integer"})
	} else if travelers <= 0 {
		errs = append(errs, ValidationError{Field: "booking.numberOfTravelers", Message: "numberOfTravelers must be positive"})
	}

	startDate, err := time.Parse(time.DateOnly, req.Booking.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "booking.startDate", Message: "startDate must be a YYYY-MM-DD date"})
	}

	endDate, err := time.Parse(time.DateOnly, req.Booking.EndDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "booking.endDate", Message: "endDate must be a YYYY-MM-DD date"})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if endDate.Before(startDate) {
		return nil, ValidationErrors{
			ValidationError{Field: "booking.endDate", Message: "endDate must not be before startDate"},
		}
	}

	return &ConfirmInput{
		Travelers: travelers,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// Validate checks a fully materialized booking before persistence
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if booking.EndDate.Before(booking.StartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not be before start_date",
			},
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
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
