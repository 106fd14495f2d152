package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewNetworkError marks an upstream fetch that failed at the transport or
// HTTP-status level.
func NewNetworkError(message string, err error) error {
	return &DomainError{
		Code:       "NETWORK_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewAuthError marks an upstream rejection of our API token (401/403).
func NewAuthError(message string, details map[string]any) error {
	return &DomainError{
		Code:       "AUTH_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Details:    details,
	}
}

// NewUnknownStatusError marks a ticket status outside the closed enumeration.
// The run fails rather than silently dropping the ticket from the report.
func NewUnknownStatusError(status string, details map[string]any) error {
	return &DomainError{
		Code:       "UNKNOWN_STATUS",
		Message:    fmt.Sprintf("unknown ticket status %q", status),
		HTTPStatus: http.StatusBadGateway,
		Details:    details,
	}
}

// NewDeliveryError marks a failed SMTP exchange.
func NewDeliveryError(message string, err error) error {
	return &DomainError{
		Code:       "DELIVERY_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ErrorCode extracts the taxonomy code, defaulting to INTERNAL_ERROR.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

func MapError(err error) error {
	return ToDomainError(err)
}
