package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
)

// Singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest performs validation on the struct payload.
// Returns nil on success, or an AppError with ErrCodeRequestValidation on failure.
func ValidateRequest(payload any) *apierrors.AppError {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var messages []string
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, vErr := range vErrs {
			messages = append(messages, describe(vErr))
		}
	} else {
		messages = append(messages, err.Error())
	}

	errMsg := "Validation failed: " + strings.Join(messages, "; ")
	return apierrors.NewApplicationError(apierrors.ErrCodeRequestValidation, errMsg, err)
}

// ValidateEach validates every element of a slice payload, reporting the index of the first failure.
func ValidateEach[T any](items []T) *apierrors.AppError {
	if len(items) == 0 {
		return apierrors.NewApplicationError(apierrors.ErrCodeRequestValidation, "Validation failed: at least one entry is required", nil)
	}
	for i := range items {
		if appErr := ValidateRequest(&items[i]); appErr != nil {
			appErr.Message = fmt.Sprintf("entry %d: %s", i, appErr.Message)
			return appErr
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "gt", "gte", "min", "max":
		return fmt.Sprintf("Field '%s' must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("Field '%s' failed validation on '%s' tag", fe.Field(), fe.Tag())
	}
}
