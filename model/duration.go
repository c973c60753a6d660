package model

import (
	"fmt"
	"strings"
)

// DurationType is the notated value of a note or rest.
type DurationType int

const (
	Whole DurationType = iota
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
	SixtyFourth
	OneTwentyEighth
)

var durationTypeNames = []string{"whole", "half", "quarter", "eighth", "16th", "32nd", "64th", "128th"}

func (d DurationType) String() string {
	if d < Whole || d > OneTwentyEighth {
		return "unknown"
	}
	return durationTypeNames[d]
}

func ParseDurationType(name string) (DurationType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range durationTypeNames {
		if n == name {
			return DurationType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown duration type %q", name)
}

type Duration struct {
	Type DurationType
	Dots int
}

func (d Duration) QuarterLength() float64 {
	base := 4.0
	for i := Whole; i < d.Type; i++ {
		base /= 2
	}
	total, add := base, base
	for i := 0; i < d.Dots; i++ {
		add /= 2
		total += add
	}
	return total
}

func (d Duration) String() string {
	return strings.Repeat("dotted ", d.Dots) + d.Type.String()
}

// DurationsFor splits a length in quarter notes into notated values, largest
// first, that sum to it exactly. The pieces are meant to be tied. Lengths not
// expressible down to a 128th are truncated.
func DurationsFor(ql float64) []Duration {
	var res []Duration
	const eps = 1e-9
	remaining := ql
	for remaining > eps {
		var picked *Duration
		for t := Whole; t <= OneTwentyEighth; t++ {
			d := Duration{Type: t}
			if d.QuarterLength() <= remaining+eps {
				picked = &d
				break
			}
		}
		if picked == nil {
			break
		}
		dotted := Duration{Type: picked.Type, Dots: 1}
		if picked.Type < OneTwentyEighth && dotted.QuarterLength() <= remaining+eps {
			picked = &dotted
		}
		res = append(res, *picked)
		remaining -= picked.QuarterLength()
	}
	return res
}
