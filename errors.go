package heatshrink

import "errors"

// Package errors. Use errors.New for static messages, fmt.Errorf with %w
// when a sentinel needs to carry extra context but still satisfy errors.Is.
var (
	// ErrNullInput is returned when an operation that requires a buffer is
	// called with a nil or empty one.
	ErrNullInput = errors.New("heatshrink: no input/output buffer provided")

	// ErrMisuse is returned when an operation is called out of sequence,
	// such as Encoder.Sink after Finish without an intervening Reset.
	// Decompress also wraps it when the stream ends partway through a token.
	ErrMisuse = errors.New("heatshrink: operation called out of sequence")

	// ErrInternal is returned when an invariant that should be unreachable
	// by construction is violated. It is surfaced to the caller rather than
	// silently corrupting state or panicking across the API boundary.
	ErrInternal = errors.New("heatshrink: internal invariant violated")
)
