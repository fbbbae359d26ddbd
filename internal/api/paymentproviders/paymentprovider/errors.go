package paymentprovider

import "errors"

var (
	// ErrMissingSignature is returned when the webhook request carries no
	// signature header or no body at all. Its text is the exact error
	// string the webhook endpoint responds with.
	ErrMissingSignature = errors.New("Missing signature from header")

	// ErrBadSignature is returned when the signature header is present
	// but doesn't verify against the raw request body.
	ErrBadSignature = errors.New("webhook signature verification failed")

	ErrNotFound = errors.New("not found in provider")
)
