package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// Validatable is implemented by every request payload.
type Validatable interface {
	Validate() error
}

// ValidationFailed turns ozzo validation errors into a VALIDATION_FAILED
// error with one detail per field.
func ValidationFailed(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		return apperrors.NewValidationError("request validation failed", details)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}
