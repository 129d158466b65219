package domain

import "errors"

// Stable error classifications surfaced by the services. The api layer
// maps these to response codes with errors.Is, so wrapping is fine but
// replacing them is not.
var (
	ErrInvalidInput      = errors.New("invalid request input")
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("operation not permitted for this role")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrBadCredentials    = errors.New("invalid username or password")
)
