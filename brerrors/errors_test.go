package brerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cases := []struct {
		err    error
		marker error
	}{
		{&UnsupportedStreamError{Kind: "voice"}, ErrUnsupportedStream},
		{&AlignmentError{Segment: 2, Upper: "m1-4", Lower: "m1-3"}, ErrAlignment},
		{NewEncodingError(3, 1.5, "chord has no notes"), ErrEncoding},
		{&PreconditionError{Part: "P1", Reason: "no measures"}, ErrPrecondition},
	}

	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("translate: %w", c.err)
			assert.True(t, errors.Is(wrapped, c.marker))
		})
	}
}

func TestEncodingErrorCarriesLocation(t *testing.T) {
	err := error(NewEncodingError(7, 2, "octave %d out of range", 11))

	var encErr *EncodingError
	assert := assert.New(t)
	assert.True(errors.As(err, &encErr))
	assert.Equal(7, encErr.Measure)
	assert.Equal(2.0, encErr.Offset)
	assert.Contains(err.Error(), "measure 7")
	assert.Contains(err.Error(), "octave 11 out of range")
}

func TestAlignmentErrorCountMismatchMessage(t *testing.T) {
	err := &AlignmentError{Segment: -1, Upper: "3", Lower: "2"}
	assert.Equal(t, "grand staff alignment: 3 segments vs 2 segments", err.Error())
}
