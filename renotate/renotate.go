// Package renotate prepares raw parts for transcription: it organizes loose
// events into measures, spells accidentals, and adds the clef, time signature
// and final barline a notated part is expected to carry.
package renotate

import (
	"math"
	"sort"

	"github.com/jsphweid/musicbraille/model"
)

const epsilon = 1e-9

// Renotator returns a notated copy of a part. It must not modify its input.
type Renotator interface {
	MakeNotation(part model.Part) (model.Part, error)
}

// Default is the renotator used when none is configured.
type Default struct{}

func (Default) MakeNotation(part model.Part) (model.Part, error) {
	res := part
	res.Loose = nil
	if len(part.Measures) > 0 {
		res.Measures = make([]model.Measure, len(part.Measures))
		for i, m := range part.Measures {
			m.Events = append([]model.Event(nil), m.Events...)
			m.SortEvents()
			res.Measures[i] = m
		}
	} else {
		res.Measures = MakeMeasures(part.Loose)
	}
	if len(res.Measures) == 0 {
		return res, nil
	}

	ensureTimeSignature(res.Measures)
	ensureClef(res.Measures)
	SpellAccidentals(res.Measures)
	ensureFinalBarline(res.Measures)
	return res, nil
}

type bar struct {
	start  float64
	length float64
	meter  *model.TimeSignature
}

// MakeMeasures organizes events offset from the part start into measures.
// Notes and chords crossing a barline are split into tied pieces and gaps
// are filled with rests. A time signature takes effect at the first barline
// at or after its offset; the meter defaults to 4/4.
func MakeMeasures(loose []model.Event) []model.Measure {
	if len(loose) == 0 {
		return nil
	}
	events := append([]model.Event(nil), loose...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Offset() < events[j].Offset() })

	var end float64
	var meters []model.TimeSignature
	for _, e := range events {
		if d, ok := model.EventDuration(e); ok {
			end = math.Max(end, e.Offset()+d.QuarterLength())
		} else {
			end = math.Max(end, e.Offset())
		}
		if ts, ok := e.(model.TimeSignature); ok && ts.Numerator > 0 && ts.Denominator > 0 {
			meters = append(meters, ts)
		}
	}

	current := model.TimeSignature{Numerator: 4, Denominator: 4}
	var bars []bar
	next := 0
	for start := 0.0; len(bars) == 0 || start < end-epsilon; start += current.BarLength() {
		var meter *model.TimeSignature
		for next < len(meters) && meters[next].Offset() <= start+epsilon {
			current = meters[next]
			next++
			m := current
			meter = &m
		}
		bars = append(bars, bar{start: start, length: current.BarLength(), meter: meter})
	}

	measures := make([]model.Measure, len(bars))
	for i, b := range bars {
		measures[i].Number = i + 1
		if b.meter != nil {
			ts := *b.meter
			ts.Position = model.At(0)
			measures[i].Events = append(measures[i].Events, ts)
		}
	}
	barAt := func(offset float64) int {
		i := sort.Search(len(bars), func(i int) bool { return bars[i].start > offset+epsilon }) - 1
		return max(i, 0)
	}

	for _, e := range events {
		if _, ok := e.(model.TimeSignature); ok {
			continue
		}
		d, ok := model.EventDuration(e)
		if !ok {
			bi := barAt(e.Offset())
			measures[bi].Events = append(measures[bi].Events, shift(e, e.Offset()-bars[bi].start))
			continue
		}

		type placed struct {
			bar int
			ev  model.Event
		}
		var pieces []placed
		start, remaining := e.Offset(), d.QuarterLength()
		for remaining > epsilon {
			bi := barAt(start)
			length := math.Min(bars[bi].start+bars[bi].length-start, remaining)
			durations := model.DurationsFor(length)
			if len(durations) == 0 {
				break
			}
			for _, dur := range durations {
				pieces = append(pieces, placed{bi, withDuration(shift(e, start-bars[bi].start), dur)})
				start += dur.QuarterLength()
			}
			remaining -= length
		}

		evs := make([]model.Event, len(pieces))
		for i, p := range pieces {
			evs[i] = p.ev
		}
		tie(evs)
		for i, p := range pieces {
			measures[p.bar].Events = append(measures[p.bar].Events, evs[i])
		}
	}

	for i := range measures {
		measures[i].SortEvents()
		fillRests(&measures[i], bars[i].length)
	}
	return measures
}

// tie links the pieces of one split note or chord, keeping the original's
// incoming and outgoing ties on the outer pieces and its slur ends on the
// first and last piece.
func tie(pieces []model.Event) {
	if len(pieces) < 2 {
		return
	}
	last := len(pieces) - 1
	for i, p := range pieces {
		var orig model.Tie
		var slur model.Slur
		switch v := p.(type) {
		case model.Note:
			orig, slur = v.Tie, v.Slur
		case model.Chord:
			orig, slur = v.Tie, v.Slur
		default:
			return
		}

		t := model.TieContinue
		switch {
		case i == 0 && !orig.Arrives():
			t = model.TieStart
		case i == last && !orig.Continues():
			t = model.TieStop
		}
		if i > 0 {
			slur &^= model.SlurStart
		}
		if i < last {
			slur &^= model.SlurStop
		}

		switch v := p.(type) {
		case model.Note:
			v.Tie, v.Slur = t, slur
			pieces[i] = v
		case model.Chord:
			v.Tie, v.Slur = t, slur
			pieces[i] = v
		}
	}
}

// fillRests writes rests into the gaps between sounding events and up to
// the barline.
func fillRests(m *model.Measure, length float64) {
	var cursor float64
	var rests []model.Event
	gap := func(until float64) {
		for _, d := range model.DurationsFor(until - cursor) {
			rests = append(rests, model.Rest{Position: model.At(cursor), Duration: d})
			cursor += d.QuarterLength()
		}
	}
	for _, e := range m.Events {
		d, ok := model.EventDuration(e)
		if !ok {
			continue
		}
		if e.Offset() > cursor+epsilon {
			gap(e.Offset())
		}
		cursor = math.Max(cursor, e.Offset()+d.QuarterLength())
	}
	if length > cursor+epsilon {
		gap(length)
	}
	if len(rests) > 0 {
		m.Events = append(m.Events, rests...)
		m.SortEvents()
	}
}

func ensureTimeSignature(measures []model.Measure) {
	for _, m := range measures {
		for _, e := range m.Events {
			if _, ok := e.(model.TimeSignature); ok {
				return
			}
		}
	}
	first := &measures[0]
	first.Events = append([]model.Event{model.TimeSignature{Numerator: 4, Denominator: 4}}, first.Events...)
}

// ensureClef adds a treble or bass clef, whichever suits the part's average
// pitch, when the part has none.
func ensureClef(measures []model.Measure) {
	var sum, count int
	for _, m := range measures {
		for _, e := range m.Events {
			switch v := e.(type) {
			case model.Clef:
				return
			case model.Note:
				sum += v.Pitch.MIDI()
				count++
			case model.Chord:
				for _, n := range v.Notes {
					sum += n.Pitch.MIDI()
					count++
				}
			}
		}
	}
	kind := model.TrebleClef
	if count > 0 && sum/count < 60 {
		kind = model.BassClef
	}
	first := &measures[0]
	first.Events = append([]model.Event{model.Clef{Type: kind}}, first.Events...)
}

func ensureFinalBarline(measures []model.Measure) {
	last := &measures[len(measures)-1]
	for _, e := range last.Events {
		if _, ok := e.(model.Barline); ok {
			return
		}
	}
	length := last.Length()
	if ts := meterAt(measures, len(measures)-1); ts != nil {
		length = math.Max(length, ts.BarLength())
	}
	last.Events = append(last.Events, model.Barline{Position: model.At(length), Style: model.BarFinal})
}

// meterAt returns the time signature in force in the measure at pos.
func meterAt(measures []model.Measure, pos int) *model.TimeSignature {
	var ts *model.TimeSignature
	for i := 0; i <= pos; i++ {
		for _, e := range measures[i].Events {
			if t, ok := e.(model.TimeSignature); ok {
				ts = &t
			}
		}
	}
	return ts
}

func shift(e model.Event, offset float64) model.Event {
	pos := model.At(offset)
	switch v := e.(type) {
	case model.Note:
		v.Position = pos
		return v
	case model.Chord:
		v.Position = pos
		return v
	case model.Rest:
		v.Position = pos
		return v
	case model.Dynamic:
		v.Position = pos
		return v
	case model.KeySignature:
		v.Position = pos
		return v
	case model.TimeSignature:
		v.Position = pos
		return v
	case model.Clef:
		v.Position = pos
		return v
	case model.TempoMark:
		v.Position = pos
		return v
	case model.Barline:
		v.Position = pos
		return v
	}
	return e
}

func withDuration(e model.Event, d model.Duration) model.Event {
	switch v := e.(type) {
	case model.Note:
		v.Duration = d
		return v
	case model.Chord:
		v.Duration = d
		return v
	case model.Rest:
		v.Duration = d
		return v
	}
	return e
}
