package util

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status a failure maps to along with the
// client-facing message. Err holds the underlying cause, if any.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

// NewConflictError is used for duplicate records (email, phone, license).
// Those are reported as 400.
func NewConflictError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// NewSlotConflictError is used for double-booked appointment slots.
func NewSlotConflictError(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

func NewTooManyRequestsError(msg string) *AppError {
	return &AppError{Status: http.StatusTooManyRequests, Message: msg}
}

/*
* Find the AppError in the chain and return its status
* Anything else is an unexpected failure
 */
func StatusOf(err error) int {
	var appErr *AppError
	if asAppError(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func asAppError(err error, target **AppError) bool {
	return errors.As(err, target)
}
