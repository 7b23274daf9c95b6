package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Request errors
	ErrMissingField   = errors.New("required field is missing")
	ErrInvalidMode    = errors.New("mode must be 'hint' or 'code'")
	ErrInvalidRequest = errors.New("invalid request")

	// Pipeline errors
	ErrAssistUnavailable = errors.New("no assist pipeline available")
	ErrUsageLimitReached = errors.New("daily usage limit reached")
)

// GenerationError signals an upstream generator failure: timeout, non-success
// status, network failure or malformed payload. It triggers fallback at the
// router and is never retried by the quality loop.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EvaluationError signals a scoring failure. The retry controller degrades to
// an unscored accept; it never blocks returning a usable answer.
type EvaluationError struct {
	Provider string
	Err      error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed (%s): %v", e.Provider, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
