package services

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP status codes
// with errors.Is; wrapped database errors fall through to ErrUnavailable
// handling at the edge.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("service unavailable")
)
