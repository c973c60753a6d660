// Package brerrors defines the failures a transcription call can end with.
// Every error is terminal for the call; no partial output accompanies it.
package brerrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedStream = errors.New("unsupported stream")
	ErrAlignment         = errors.New("grand staff alignment")
	ErrEncoding          = errors.New("encoding")
	ErrPrecondition      = errors.New("precondition")
)

// UnsupportedStreamError is returned for objects the dispatcher cannot route.
type UnsupportedStreamError struct {
	Kind string
}

func (e *UnsupportedStreamError) Error() string {
	return fmt.Sprintf("%s: %s cannot be translated to braille", ErrUnsupportedStream, e.Kind)
}

func (e *UnsupportedStreamError) Unwrap() error { return ErrUnsupportedStream }

// AlignmentError reports a mismatch between upper and lower staff segments.
type AlignmentError struct {
	Segment int
	Upper   string
	Lower   string
}

func (e *AlignmentError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("%s: %s segments vs %s segments", ErrAlignment, e.Upper, e.Lower)
	}
	return fmt.Sprintf("%s: segment %d covers %s in the upper staff but %s in the lower staff", ErrAlignment, e.Segment, e.Upper, e.Lower)
}

func (e *AlignmentError) Unwrap() error { return ErrAlignment }

// EncodingError marks a malformed musical event.
type EncodingError struct {
	Measure int
	Offset  float64
	Reason  string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: measure %d offset %g: %s", ErrEncoding, e.Measure, e.Offset, e.Reason)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// PreconditionError reports input that lacks the organization a call needs.
type PreconditionError struct {
	Part   string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("%s: %s", ErrPrecondition, e.Reason)
	}
	return fmt.Sprintf("%s: part %s: %s", ErrPrecondition, e.Part, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

func NewEncodingError(measure int, offset float64, format string, args ...any) *EncodingError {
	return &EncodingError{Measure: measure, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
