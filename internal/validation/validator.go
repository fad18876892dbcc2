// Package validation wraps go-playground/validator for request body
// validation in the handlers.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/scriptorium/internal/apperror"
)

// Validator validates request structs and reports failures as domain
// validation errors so the handler's writeError maps them to 400.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for the API.
func New() *Validator {
	v := validator.New()

	// Error messages should name the json field the client sent, not
	// the Go struct field.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		for i := 0; i < len(name); i++ {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	return &Validator{v: v}
}

// Validate checks a struct against its validate tags. The first failing
// field is reported; one actionable message beats a wall of them.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	first := validationErrs[0]
	return apperror.ValidationFailed(first.Field(),
		fmt.Sprintf("%s %s", first.Field(), friendlyMessage(first)))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("failed validation rule %q", e.Tag())
	}
}
