package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status and a message that is safe to show to
// the user. Err keeps the underlying cause for logs.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// NewBadGatewayError reports a failure of the upstream model provider.
func NewBadGatewayError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Message: message, Err: err}
}

// AsAppError unwraps err into an *AppError, falling back to a generic 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}
