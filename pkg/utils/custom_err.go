package utils

import "errors"

// Checkout-flow errors carry the exact client-facing message; the checkout
// endpoint returns err.Error() verbatim in its error body.
var (
	ErrInvalidCheckoutParams = errors.New("Invalid parameters: Amount must be greater than 0")
	ErrGiftNotFound          = errors.New("Gift not found")
	ErrAmountMismatch        = errors.New("Amount mismatch")
)

// Draft-flow errors are mapped to HTTP responses by HandleServiceError.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrDraftNotFound    = errors.New("draft not found")
	ErrDatabaseError    = errors.New("database error")
)
