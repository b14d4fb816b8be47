package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Details interface{}
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

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
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

// InvalidReviewID rejects identifiers that don't match the generated format.
func InvalidReviewID(id string) *AppError {
	return &AppError{
		Code:    "INVALID_REVIEW_ID",
		Message: fmt.Sprintf("Invalid review id format: %q", id),
		Status:  http.StatusBadRequest,
	}
}

func InvalidSortField(field string) *AppError {
	return &AppError{
		Code:    "INVALID_SORT_FIELD",
		Message: fmt.Sprintf("Sorting by %q is not supported", field),
		Status:  http.StatusBadRequest,
	}
}

func InvalidStatus(message string) *AppError {
	return &AppError{
		Code:    "INVALID_STATUS",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// TooManyRequests carries the wait time in seconds so callers can back off.
func TooManyRequests(message string, retryAfter int) *AppError {
	return &AppError{
		Code:    "TOO_MANY_REQUESTS",
		Message: message,
		Status:  http.StatusTooManyRequests,
		Details: map[string]interface{}{"retryAfter": retryAfter},
	}
}

func TokenExpired(message string) *AppError {
	return &AppError{
		Code:    "TOKEN_EXPIRED",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func TokenNotFound(message string) *AppError {
	return &AppError{
		Code:    "TOKEN_NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// RetryAfter extracts the retryAfter detail from a rate-limit error, 0 if absent.
func RetryAfter(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 0
	}
	details, ok := appErr.Details.(map[string]interface{})
	if !ok {
		return 0
	}
	seconds, ok := details["retryAfter"].(int)
	if !ok {
		return 0
	}
	return seconds
}
