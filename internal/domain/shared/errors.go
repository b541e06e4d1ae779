package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so wrapped variants still compare equal
// to the package sentinels.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound    = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidDate = NewDomainError("INVALID_DATE", "Date must be formatted as YYYY-MM-DD")
)

// IsDomainError reports whether err carries a DomainError and returns it
func IsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
