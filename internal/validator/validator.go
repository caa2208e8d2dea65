// Package validator wraps go-playground/validator behind a single
// ValidateRequest helper that reports failures as ierr validation errors.
package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateRequest validates a struct against its `validate` tags and returns
// an ierr validation error with per-field details on failure.
func ValidateRequest(req interface{}) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}

	details := make(map[string]interface{}, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = "failed on " + fieldErr.Tag()
	}

	return ierr.NewError("request validation failed").
		WithHint("Please check the request fields").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
