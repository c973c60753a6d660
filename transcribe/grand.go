package transcribe

import (
	"strconv"

	"github.com/jsphweid/musicbraille/brerrors"
	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/segment"
)

// GrandSegment is an upper and a lower staff segment over the same measures.
type GrandSegment struct {
	Upper segment.Segment
	Lower segment.Segment
}

// Pair matches staff segments index by index. Counts and measure ranges
// must agree.
func Pair(upper, lower []segment.Segment) ([]GrandSegment, error) {
	if len(upper) != len(lower) {
		return nil, &brerrors.AlignmentError{
			Segment: -1,
			Upper:   strconv.Itoa(len(upper)),
			Lower:   strconv.Itoa(len(lower)),
		}
	}
	res := make([]GrandSegment, len(upper))
	for i := range upper {
		if upper[i].Range() != lower[i].Range() {
			return nil, &brerrors.AlignmentError{Segment: i, Upper: upper[i].Range(), Lower: lower[i].Range()}
		}
		res[i] = GrandSegment{Upper: upper[i], Lower: lower[i]}
	}
	return res, nil
}

// Combine writes each grand segment as its upper lines followed by its lower
// lines.
func Combine(upper, lower []segment.Segment, opts config.Options) (Lines, error) {
	pairs, err := Pair(upper, lower)
	if err != nil {
		return Lines{}, err
	}
	var res Lines
	for _, p := range pairs {
		u, err := Transcribe(p.Upper, opts)
		if err != nil {
			return Lines{}, err
		}
		l, err := Transcribe(p.Lower, opts)
		if err != nil {
			return Lines{}, err
		}
		res.Append(u)
		res.Append(l)
	}
	return res, nil
}
