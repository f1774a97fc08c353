package domain

import "errors"

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation error")
	ErrPaymentIncomplete   = errors.New("payment incomplete")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
