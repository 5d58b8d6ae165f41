package common

import "errors"

// Business logic errors
var (
	// Payment info errors
	ErrMissingPaymentInfo = errors.New("missing payment info")
	ErrInvalidPayload     = errors.New("invalid payload for provider")
	ErrFetchFailure       = errors.New("failed to fetch payment info")

	// Method errors
	ErrMethodNotFound = errors.New("payment method not found")

	// Intent errors
	ErrCurrencyRequired   = errors.New("currency is required")
	ErrSecretKeyMissing   = errors.New("stripe secret key is not configured")
	ErrIntentCreateFailed = errors.New("failed to create payment intent")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
