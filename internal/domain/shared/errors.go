package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden          = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock  = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyOrder         = NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	ErrProductNotFound    = NewDomainError("PRODUCT_NOT_FOUND", "Product not found or inactive")
	ErrNotCancellable     = NewDomainError("NOT_CANCELLABLE", "Order can no longer be cancelled")
	ErrCarrierUnavailable = NewDomainError("CARRIER_UNAVAILABLE", "Carrier did not respond in time")
	ErrSignatureMismatch  = NewDomainError("SIGNATURE_MISMATCH", "Webhook signature verification failed")
)

// NewInvalidTransitionError builds the error for a disallowed status transition,
// naming both the current and the requested status.
func NewInvalidTransitionError(from, to string) *DomainError {
	return NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition order from %q to %q", from, to))
}

// NewDispatchRejectedError wraps a carrier-side refusal with its reason.
func NewDispatchRejectedError(reason string) *DomainError {
	if reason == "" {
		reason = "Carrier rejected the shipment"
	}
	return NewDomainError("DISPATCH_REJECTED", reason)
}
