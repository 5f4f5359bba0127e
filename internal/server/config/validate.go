package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct tag rules of Config. Only the first failing
// field is reported.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError never echoes field values, which may hold secrets.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("invalid config: %s: failed on '%s' tag", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}
