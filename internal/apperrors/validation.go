package apperrors

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FromValidationErrors переводит ошибки validator в VALIDATION_ERROR
// с деталями по полям.
func FromValidationErrors(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("Invalid payload", nil)
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return Validation("Invalid payload", details)
}
