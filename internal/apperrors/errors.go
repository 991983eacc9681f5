package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError — бизнес-ошибка с машиночитаемым кодом и HTTP статусом.
// Границы (fiber handlers) возвращают её как error, центральный
// ErrorHandler переводит в JSON {code, message, details}.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details any
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func InvalidOperation(message string) *AppError {
	return &AppError{
		Code:    "INVALID_OPERATION",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InsufficientOwnership — у отправителя нет нужного количества карты
func InsufficientOwnership(message string) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_OWNERSHIP",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// AlreadyFinalized — попытка изменить завершённое предложение обмена
func AlreadyFinalized(message string) *AppError {
	return &AppError{
		Code:    "ALREADY_FINALIZED",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func Validation(message string, details any) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Is проверяет, несёт ли ошибка указанный код
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
