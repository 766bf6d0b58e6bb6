package apperror

import (
	"errors"
	"net/http"
)

// AppError is a request-level failure carrying the HTTP status it maps to.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrSessionRequired    = &AppError{Code: http.StatusUnauthorized, Message: "Sign in to use the remote store"}
	ErrRemoteUnavailable  = &AppError{Code: http.StatusServiceUnavailable, Message: "Remote store unavailable"}
	ErrEmptyCart          = &AppError{Code: http.StatusUnprocessableEntity, Message: "Cart is empty"}
	ErrVersionConflict    = &AppError{Code: http.StatusConflict, Message: "Settings were changed elsewhere, reload and try again"}
	ErrRemoteRejected     = &AppError{Code: http.StatusConflict, Message: "Remote store rejected the data"}
)

// classified is a remote store failure that knows whether a retry can help.
type classified interface {
	error
	Terminal() bool
}

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible. Remote store
// failures become 409 when the data was rejected and 503 otherwise.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var remoteErr classified
	if errors.As(err, &remoteErr) {
		return FromRemote(remoteErr)
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// FromRemote maps a classified remote failure to the response it deserves.
// The message keeps the cause so the till operator can act on it.
func FromRemote(err error) *AppError {
	var remoteErr classified
	if !errors.As(err, &remoteErr) {
		return ErrRemoteUnavailable
	}
	base := ErrRemoteUnavailable
	if remoteErr.Terminal() {
		base = ErrRemoteRejected
	}
	return &AppError{Code: base.Code, Message: base.Message + ": " + remoteErr.Error()}
}
