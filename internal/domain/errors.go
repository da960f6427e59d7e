package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound       = errors.New("domain: not found")
	ErrValidation     = errors.New("domain: validation failed")
	ErrInvalidState   = errors.New("domain: operation not legal for current state")
	ErrForbidden      = errors.New("domain: forbidden")
	ErrGateway        = errors.New("domain: payment gateway call failed")
	ErrDuplicateEvent = errors.New("domain: gateway event already processed")
	ErrUnknownPlan    = errors.New("domain: unknown plan")
)
