package services

import "errors"

// Failure taxonomy for the engines. Handlers map these to HTTP codes;
// anything not matching one of them is a server error. Conflict and
// ErrAmountMismatch are expected conditions, retryable with fresh data.
var (
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = errors.New("record not found")
	ErrForbidden      = errors.New("not allowed for this record")
	ErrConflict       = errors.New("state changed by another request")
	ErrAmountMismatch = errors.New("amount does not match outstanding balance")
)
