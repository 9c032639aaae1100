package validator

import (
	"errors"
	"fmt"
	"strings"

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

type ReviewValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	log.Info("Review validator initialized successfully")
	return &ReviewValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateSubmit checks a review submission. A zero rating means the
// field was absent and is rejected; out-of-range values are left for the
// service to clamp into [1,5].
func (v *ReviewValidator) ValidateSubmit(req *model.SubmitReviewRequest) error {
	var errs ValidationErrors

	requireField := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)})
		}
	}

	requireField("packageId", req.PackageID)
	requireField("userId", req.UserID)
	requireField("userName", req.UserName)
	requireField("comment", req.Comment)

	if req.Rating == 0 {
		errs = append(errs, ValidationError{Field: "rating", Message: "rating is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks a fully materialized review before persistence
func (v *ReviewValidator) Validate(review *model.Review) error {
	if err := v.validate.Struct(review); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReviewValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
