package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeForbidden      ErrorType = "FORBIDDEN"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// AppError is the single error currency of the application. Every domain
// failure is raised as one of these as close to the point of detection as
// possible and propagates unmodified to the transport layer, which maps
// StatusCode and serializes the message.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, StatusCode: http.StatusBadRequest}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Type: ErrorTypeAuthentication, Message: message, StatusCode: http.StatusUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message, StatusCode: http.StatusForbidden}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message, StatusCode: http.StatusNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, StatusCode: http.StatusConflict}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, StatusCode: http.StatusInternalServerError, Cause: cause}
}

// Shared sentinel errors. Authentication messages are intentionally generic so
// the caller cannot tell which part of a credential was wrong.
var (
	ErrInvalidCredentials  = NewAuthenticationError("Invalid email or password")
	ErrInvalidAccessToken  = NewAuthenticationError("Invalid access token")
	ErrAccessTokenRequired = NewAuthenticationError("Access token required")

	ErrRefreshTokenRequired = NewAuthenticationError("Refresh token is required")
	ErrRefreshTokenInvalid  = NewAuthenticationError("Invalid refresh token")
	ErrRefreshTokenRevoked  = NewAuthenticationError("Refresh token has been revoked")
	ErrRefreshTokenExpired  = NewAuthenticationError("Refresh token has expired")
	ErrEmployeeInactive     = NewAuthenticationError("Employee account is inactive")

	ErrEmployeeNotFound = NewNotFoundError("Employee not found")
	ErrEmailExists      = NewConflictError("Email already exists")
	ErrHasReports       = NewConflictError("Employee still has direct reports")
	ErrAssetNotFound    = NewNotFoundError("Asset not found")
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, ErrorResponse{Success: false, Error: e.Message}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(ErrorResponse{Success: false, Error: e.Message})
}
