package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for domain-level input rejections (bad amounts, empty IDs)
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidDate is used when a date is not YYYY-MM-DD
	ErrCodeInvalidDate = "ERR_INVALID_DATE"
	// ErrCodeInvalidPeriod is used when a year or month is out of range
	ErrCodeInvalidPeriod = "ERR_INVALID_PERIOD"
	// ErrCodeInvalidDateRange is used when a range start is after its end
	ErrCodeInvalidDateRange = "ERR_INVALID_DATE_RANGE"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when a concurrent writer won
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Job error codes
const (
	// ErrCodeSchedulerUnavailable is used when the job scheduler is stopped or disabled
	ErrCodeSchedulerUnavailable = "ERR_SCHEDULER_UNAVAILABLE"
	// ErrCodeJobQueueFull is used when the scheduler cannot accept more jobs
	ErrCodeJobQueueFull = "ERR_JOB_QUEUE_FULL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidDate:      http.StatusBadRequest,
	ErrCodeInvalidPeriod:    http.StatusBadRequest,
	ErrCodeInvalidDateRange: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeSchedulerUnavailable: http.StatusServiceUnavailable,
	ErrCodeJobQueueFull:         http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps bare domain error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_DATE":         ErrCodeInvalidDate,
	"INVALID_PERIOD":       ErrCodeInvalidPeriod,
	"INVALID_DATE_RANGE":   ErrCodeInvalidDateRange,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Field-level domain codes (INVALID_SALE_PRICE, INVALID_COST, ...) collapse to
// ERR_INVALID_INPUT; anything else unknown becomes a business rule violation.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return ErrCodeBusinessRule
}
