// Package sample cuts measure ranges out of parts and scores.
package sample

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/renotate"
)

// Range is an inclusive span of measure numbers. Last of zero means through
// the end.
type Range struct {
	First, Last int
}

func (r Range) String() string {
	if r.Last == 0 {
		return fmt.Sprintf("%d-", r.First)
	}
	if r.First == r.Last {
		return strconv.Itoa(r.First)
	}
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

func (r Range) contains(n int) bool {
	return n >= r.First && (r.Last == 0 || n <= r.Last)
}

// ParseRange reads "5", "3-7" or "3-".
func ParseRange(value string) (Range, error) {
	value = strings.TrimSpace(value)
	firstPart, lastPart, isSpan := strings.Cut(value, "-")
	first, err := strconv.Atoi(firstPart)
	if err != nil {
		return Range{}, fmt.Errorf("measure range %q: %w", value, err)
	}
	r := Range{First: first, Last: first}
	if isSpan {
		r.Last = 0
		if lastPart != "" {
			if r.Last, err = strconv.Atoi(lastPart); err != nil {
				return Range{}, fmt.Errorf("measure range %q: %w", value, err)
			}
		}
	}
	if r.First < 1 || (r.Last != 0 && r.Last < r.First) {
		return Range{}, fmt.Errorf("measure range %q: must be ascending from 1", value)
	}
	return r, nil
}

// carried are the signatures an excerpt inherits from the measures it skips.
var carried = map[string]bool{"key signature": true, "time signature": true, "clef": true}

// Excerpt returns the measures of p numbered within r. Loose parts are
// organized into measures first. The key, meter and clef in force when the
// excerpt starts are written at its start unless its first measure restates
// them.
func Excerpt(p model.Part, r Range) (model.Part, error) {
	measures := p.Measures
	if !p.HasMeasures() {
		measures = renotate.MakeMeasures(p.Loose)
	}

	res := p
	res.Measures, res.Loose = nil, nil
	inForce := make(map[string]model.Event)
	for _, m := range measures {
		if !r.contains(m.Number) {
			if len(res.Measures) == 0 {
				for _, e := range m.Events {
					if carried[e.Kind()] {
						inForce[e.Kind()] = e
					}
				}
			}
			continue
		}
		m.Events = append([]model.Event(nil), m.Events...)
		res.Measures = append(res.Measures, m)
	}
	if len(res.Measures) == 0 {
		return model.Part{}, fmt.Errorf("part %q has no measures in %s", p.ID, r)
	}

	first := &res.Measures[0]
	var lead []model.Event
	for _, kind := range []string{"clef", "key signature", "time signature"} {
		e, ok := inForce[kind]
		if !ok || restates(*first, kind) {
			continue
		}
		lead = append(lead, atStart(e))
	}
	first.Events = append(lead, first.Events...)
	return res, nil
}

func restates(m model.Measure, kind string) bool {
	for _, e := range m.Events {
		if e.Kind() == kind && e.Offset() == 0 {
			return true
		}
	}
	return false
}

func atStart(e model.Event) model.Event {
	switch v := e.(type) {
	case model.KeySignature:
		v.Position = model.At(0)
		return v
	case model.TimeSignature:
		v.Position = model.At(0)
		return v
	case model.Clef:
		v.Position = model.At(0)
		return v
	}
	return e
}

// ExcerptScore cuts every part of s to r.
func ExcerptScore(s model.Score, r Range) (model.Score, error) {
	res := s
	res.Parts = make([]model.Part, len(s.Parts))
	for i, p := range s.Parts {
		part, err := Excerpt(p, r)
		if err != nil {
			return model.Score{}, err
		}
		res.Parts[i] = part
	}
	return res, nil
}
