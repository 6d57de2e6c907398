package utils

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/voiceprep/interview-service/internal/errors"
)

// Validator wraps go-playground/validator with conversion to the
// application's ValidationErrors type.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reads field names from json tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Validator{validate: v}
}

// Validate checks struct tags on s and returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}
