package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")

	// ErrInvalidOTP is the single client-facing failure for a verification.
	// ErrExpired and ErrMismatch wrap it; ErrNotFound is joined with it by the gate.
	ErrInvalidOTP = errors.New("invalid or expired otp")
	ErrExpired    = fmt.Errorf("expired: %w", ErrInvalidOTP)
	ErrMismatch   = fmt.Errorf("mismatch: %w", ErrInvalidOTP)

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrSinkUnavailable     = errors.New("notification sink unavailable")
)
