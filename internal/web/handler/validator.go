package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

type (
	// ErrorResponse represents a single failed field check.
	ErrorResponse struct {
		Error       bool
		FailedField string
		Tag         string
		Value       any
	}

	// Rule maps a failed field and tag to the message shown to the admin.
	Rule struct {
		Field   string
		Tag     string
		Message string
	}

	// XValidator wraps go-playground/validator for the dashboard forms.
	XValidator struct {
		validator *validator.Validate
	}
)

// Validator is shared by all handlers, validator.Validate caches struct
// metadata and is safe for concurrent use.
var Validator = XValidator{validator: validator.New()} //nolint:gochecknoglobals

// Validate returns every failed check of data.
func (v XValidator) Validate(data any) []ErrorResponse {
	var validationErrors []ErrorResponse

	err := v.validator.Struct(data)

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	for _, fe := range errs {
		validationErrors = append(validationErrors, ErrorResponse{
			Error:       true,
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Value(),
		})
	}

	return validationErrors
}

// FirstMessage validates data and returns the message of the first rule, in
// rules order, that matches a failed check. It returns "" when data is valid.
// A failure no rule covers yields fallback.
func (v XValidator) FirstMessage(data any, rules []Rule, fallback string) string {
	failed := v.Validate(data)
	if len(failed) == 0 {
		return ""
	}

	for _, r := range rules {
		for _, f := range failed {
			if f.FailedField == r.Field && f.Tag == r.Tag {
				return r.Message
			}
		}
	}

	return fallback
}
