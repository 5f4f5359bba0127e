package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their `name` tag so messages match the API
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("name"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// validateStruct returns nil or an error wrapping common.ErrorValidation
// that describes the first failing field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, describe(verrs[0]))
}

func describe(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "email":
		return field + " must be a valid email"
	case "alphanum":
		return field + " may contain only letters and digits"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, strings.TrimSpace(e.Tag()))
	}
}

// validationErrorf builds an error wrapping common.ErrorValidation.
func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}
