package inventoryservice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return newError(ErrValidation, "%s", err.Error())
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return newError(ErrValidation, "%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "category":
		return fmt.Sprintf("unknown category %q", fe.Value())
	case "condition":
		return fmt.Sprintf("unknown condition %q", fe.Value())
	default:
		return field + " is invalid"
	}
}
