package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized      = "ERR_UNAUTHORIZED"
	ErrCodeForbidden         = "ERR_FORBIDDEN"
	ErrCodeTokenInvalid      = "ERR_TOKEN_INVALID"
	ErrCodeSignatureMismatch = "ERR_SIGNATURE_MISMATCH"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeEmptyOrder        = "ERR_EMPTY_ORDER"
	ErrCodeOrderLocked       = "ERR_ORDER_LOCKED"
	ErrCodeNotCancellable    = "ERR_NOT_CANCELLABLE"
)

// Shipping error codes
const (
	ErrCodeAlreadyDispatched     = "ERR_ALREADY_DISPATCHED"
	ErrCodeNotDispatched         = "ERR_NOT_DISPATCHED"
	ErrCodeAlreadyDelivered      = "ERR_ALREADY_DELIVERED"
	ErrCodeDispatchRejected      = "ERR_DISPATCH_REJECTED"
	ErrCodeCarrierUnavailable    = "ERR_CARRIER_UNAVAILABLE"
	ErrCodeProviderNotConfigured = "ERR_PROVIDER_NOT_CONFIGURED"
	ErrCodeProviderDisabled      = "ERR_PROVIDER_DISABLED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeTokenInvalid:      http.StatusUnauthorized,
	ErrCodeSignatureMismatch: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeInvalidTransition: http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusBadRequest,
	ErrCodeEmptyOrder:        http.StatusBadRequest,
	ErrCodeOrderLocked:       http.StatusBadRequest,
	ErrCodeNotCancellable:    http.StatusBadRequest,

	ErrCodeAlreadyDispatched:     http.StatusBadRequest,
	ErrCodeNotDispatched:         http.StatusBadRequest,
	ErrCodeAlreadyDelivered:      http.StatusBadRequest,
	ErrCodeDispatchRejected:      http.StatusBadRequest,
	ErrCodeCarrierUnavailable:    http.StatusBadGateway,
	ErrCodeProviderNotConfigured: http.StatusBadRequest,
	ErrCodeProviderDisabled:      http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps raw domain error codes to API error codes.
// Domain codes without an entry fall through NormalizeErrorCode as
// ERR_<code>, which keeps validation errors at 400 via the default below.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":       ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"INVALID_TRANSITION":      ErrCodeInvalidTransition,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"SIGNATURE_MISMATCH":      ErrCodeSignatureMismatch,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"EMPTY_ORDER":             ErrCodeEmptyOrder,
	"ORDER_LOCKED":            ErrCodeOrderLocked,
	"NOT_CANCELLABLE":         ErrCodeNotCancellable,
	"ALREADY_DISPATCHED":      ErrCodeAlreadyDispatched,
	"NOT_DISPATCHED":          ErrCodeNotDispatched,
	"ALREADY_DELIVERED":       ErrCodeAlreadyDelivered,
	"DISPATCH_REJECTED":       ErrCodeDispatchRejected,
	"CARRIER_UNAVAILABLE":     ErrCodeCarrierUnavailable,
	"PROVIDER_NOT_CONFIGURED": ErrCodeProviderNotConfigured,
	"PROVIDER_DISABLED":       ErrCodeProviderDisabled,
}

// NormalizeErrorCode converts a domain error code to its API error code
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainErrorCodeMapping[code]; ok {
		return mapped
	}
	if len(code) >= 4 && code[:4] == "ERR_" {
		return code
	}
	return "ERR_" + code
}

// GetHTTPStatusForDomainCode resolves the HTTP status for a raw domain code.
// Unmapped codes are treated as validation failures, not server faults: the
// domain only raises errors about the request it was given.
func GetHTTPStatusForDomainCode(code string) int {
	normalized := NormalizeErrorCode(code)
	if status, ok := ErrorCodeHTTPStatus[normalized]; ok {
		return status
	}
	return http.StatusBadRequest
}
