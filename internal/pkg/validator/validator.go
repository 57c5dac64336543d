// Package validator is a thin wrapper around go-playground/validator that
// validates structs declaratively through `validate` tags and normalizes the
// resulting errors into a single joined error chain.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the sentinel placed at the head of the error chain
// whenever one or more fields fail validation. Callers can branch on it with
// errors.Is without inspecting individual field errors.
var ErrValidationFailed = errors.New("struct validation failed")

// validate is the singleton instance, configured once at package load.
var validate *gvalidator.Validate

// errStringFormat describes a single field failure, e.g.
// "'Address': value '0x' does not meet the requirements for the 'required' validation".
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validate = gvalidator.New(gvalidator.WithRequiredStructEnabled())
}

// formatError converts the library's ValidationErrors into a joined chain
// rooted at ErrValidationFailed. Any other error is returned untouched.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks the struct against its `validate` tags. It returns nil when
// every field passes, or a joined error that includes ErrValidationFailed and
// one formatted message per failing field.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
