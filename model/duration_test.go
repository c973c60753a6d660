package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterLength(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(4.0, Duration{Type: Whole}.QuarterLength())
	assert.Equal(3.0, Duration{Type: Half, Dots: 1}.QuarterLength())
	assert.Equal(1.75, Duration{Type: Quarter, Dots: 2}.QuarterLength())
	assert.Equal(0.03125, Duration{Type: OneTwentyEighth}.QuarterLength())
}

func TestDurationsFor(t *testing.T) {
	cases := []struct {
		ql   float64
		want []Duration
	}{
		{4, []Duration{{Type: Whole}}},
		{6, []Duration{{Type: Whole, Dots: 1}}},
		{3, []Duration{{Type: Half, Dots: 1}}},
		{5, []Duration{{Type: Whole}, {Type: Quarter}}},
		{7, []Duration{{Type: Whole, Dots: 1}, {Type: Quarter}}},
		{4.5, []Duration{{Type: Whole}, {Type: Eighth}}},
		{0.75, []Duration{{Type: Eighth, Dots: 1}}},
	}
	for _, c := range cases {
		got := DurationsFor(c.ql)
		assert.Equal(t, c.want, got, "%g", c.ql)
		var sum float64
		for _, d := range got {
			sum += d.QuarterLength()
		}
		assert.InDelta(t, c.ql, sum, 1e-9)
	}

	assert.Empty(t, DurationsFor(0))
	// below a 128th nothing is notated
	assert.Empty(t, DurationsFor(0.01))
}

func TestParseDurationType(t *testing.T) {
	d, err := ParseDurationType(" Quarter ")
	require.NoError(t, err)
	assert.Equal(t, Quarter, d)

	d, err = ParseDurationType("16th")
	require.NoError(t, err)
	assert.Equal(t, Sixteenth, d)

	_, err = ParseDurationType("breve")
	assert.Error(t, err)
	assert.Equal(t, "unknown", DurationType(12).String())
	assert.Equal(t, "dotted half", Duration{Type: Half, Dots: 1}.String())
}
