// Package encode turns single musical events into braille glyphs.
//
// The Encoder is stateless apart from its options and the part-wide
// Analysis; what changes while a segment is written (octave reference,
// outgoing key and clef) lives in a State the caller creates per segment and
// passes to every Encode call.
package encode

import (
	"strings"

	"github.com/jsphweid/musicbraille/brerrors"
	"github.com/jsphweid/musicbraille/chord"
	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/lookup"
	"github.com/jsphweid/musicbraille/model"
)

type Encoder struct {
	opts     config.Options
	analysis *Analysis
}

// New returns an encoder. analysis may be nil for events encoded in
// isolation; they then carry no slur marks and no grouping.
func New(opts config.Options, analysis *Analysis) *Encoder {
	return &Encoder{opts: opts, analysis: analysis}
}

func (e *Encoder) Options() config.Options { return e.opts }

// Encode writes one event. measure is the measure number used in errors.
func (e *Encoder) Encode(ev model.Event, ref Ref, measure int, st *State) ([]lookup.Glyph, error) {
	switch v := ev.(type) {
	case model.Note:
		return e.encodeNote(v, ref, measure, st)
	case model.Chord:
		return e.encodeChord(v, ref, measure, st)
	case model.Rest:
		return e.encodeRest(v, measure)
	case model.Dynamic:
		return e.encodeDynamic(v, measure)
	case model.KeySignature:
		return e.encodeKeySignature(v, st), nil
	case model.TimeSignature:
		if v.Denominator <= 0 || v.Numerator <= 0 {
			return nil, brerrors.NewEncodingError(measure, v.At, "time signature %d/%d", v.Numerator, v.Denominator)
		}
		return lookup.TimeSignature(v), nil
	case model.Clef:
		st.Clef = v.Type
		if !e.opts.ShowClefSigns {
			return nil, nil
		}
		gl, ok := lookup.Clef(v.Type)
		if !ok {
			return nil, nil
		}
		return []lookup.Glyph{gl}, nil
	case model.TempoMark:
		return e.encodeInlineTempo(v, measure)
	case model.Barline:
		gl, ok := lookup.Barline(v.Style)
		if !ok {
			return nil, nil
		}
		return []lookup.Glyph{gl}, nil
	}
	return nil, brerrors.NewEncodingError(measure, ev.Offset(), "unsupported event %s", ev.Kind())
}

func (e *Encoder) encodeNote(n model.Note, ref Ref, measure int, st *State) ([]lookup.Glyph, error) {
	var res []lookup.Glyph
	res = append(res, e.analysis.before(ref)...)

	if gl, ok := lookup.AccidentalGlyph(n.Accidental); ok {
		res = append(res, gl)
	}
	octave, err := e.octaveMark(n.Pitch, st, measure, n.At)
	if err != nil {
		return nil, err
	}
	res = append(res, octave...)

	value, err := e.noteValue(n.Pitch.Step, n.Duration, e.analysis.Grouped(ref), measure, n.At)
	if err != nil {
		return nil, err
	}
	res = append(res, value...)

	fingers, err := e.fingering(n.Fingering, measure, n.At)
	if err != nil {
		return nil, err
	}
	res = append(res, fingers...)

	if n.Tie.Continues() {
		res = append(res, lookup.Tie)
	}
	res = append(res, e.analysis.after(ref)...)
	return res, nil
}

func (e *Encoder) encodeChord(c model.Chord, ref Ref, measure int, st *State) ([]lookup.Glyph, error) {
	descending := chord.Descending(st.Clef, e.opts.DescendingChords)
	spelling, err := chord.Spell(c, descending)
	if err != nil {
		return nil, brerrors.NewEncodingError(measure, c.At, "%v", err)
	}

	var res []lookup.Glyph
	res = append(res, e.analysis.before(ref)...)

	top := spelling.Reference
	if gl, ok := lookup.AccidentalGlyph(top.Accidental); ok {
		res = append(res, gl)
	}
	// compound members are marked from the reference, not from the
	// previous note, so check their range before moving the reference
	for _, m := range spelling.Members {
		if _, ok := lookup.OctaveMark(m.Note.Pitch.Octave); !ok {
			return nil, brerrors.NewEncodingError(measure, c.At, "pitch %v outside the representable octaves", m.Note.Pitch)
		}
	}
	octave, err := e.octaveMark(top.Pitch, st, measure, c.At)
	if err != nil {
		return nil, err
	}
	res = append(res, octave...)

	value, err := e.noteValue(top.Pitch.Step, c.Duration, false, measure, c.At)
	if err != nil {
		return nil, err
	}
	res = append(res, value...)

	fingering := c.Fingering
	if fingering == "" {
		fingering = top.Fingering
	}
	fingers, err := e.fingering(fingering, measure, c.At)
	if err != nil {
		return nil, err
	}
	res = append(res, fingers...)

	for _, m := range spelling.Members {
		if gl, ok := lookup.AccidentalGlyph(m.Note.Accidental); ok {
			res = append(res, gl)
		}
		if m.Compound && !e.opts.SuppressOctaveMarks {
			mark, _ := lookup.OctaveMark(m.Note.Pitch.Octave)
			res = append(res, mark)
		}
		interval, _ := lookup.Interval(m.Interval)
		res = append(res, interval)
		memberFingers, err := e.fingering(m.Note.Fingering, measure, c.At)
		if err != nil {
			return nil, err
		}
		res = append(res, memberFingers...)
	}

	if c.Tie.Continues() {
		res = append(res, lookup.ChordTie)
	}
	res = append(res, e.analysis.after(ref)...)
	return res, nil
}

func (e *Encoder) encodeRest(r model.Rest, measure int) ([]lookup.Glyph, error) {
	gl, ok := lookup.RestValue(r.Duration.Type)
	if !ok {
		return nil, brerrors.NewEncodingError(measure, r.At, "unsupported rest value %v", r.Duration)
	}
	return append([]lookup.Glyph{gl}, lookup.Dots(r.Duration.Dots)...), nil
}

// encodeDynamic writes the word sign and one letter per character of the
// dynamic's name.
func (e *Encoder) encodeDynamic(d model.Dynamic, measure int) ([]lookup.Glyph, error) {
	symbol := strings.TrimSpace(d.Symbol)
	if symbol == "" {
		return nil, brerrors.NewEncodingError(measure, d.At, "empty dynamic")
	}
	res := []lookup.Glyph{lookup.WordSign}
	for _, r := range strings.ToLower(symbol) {
		gl, ok := lookup.Letter(r)
		if !ok {
			return nil, brerrors.NewEncodingError(measure, d.At, "dynamic %q has no braille letter for %q", d.Symbol, r)
		}
		res = append(res, gl)
	}
	return res, nil
}

func (e *Encoder) encodeKeySignature(k model.KeySignature, st *State) []lookup.Glyph {
	var res []lookup.Glyph
	if e.opts.CancelOutgoingKeySig && st.OutgoingKey != nil {
		res = append(res, lookup.KeyCancellation(*st.OutgoingKey, k.Fifths)...)
	}
	res = append(res, lookup.KeySignature(k.Fifths)...)
	fifths := k.Fifths
	st.OutgoingKey = &fifths
	return res
}

func (e *Encoder) encodeInlineTempo(t model.TempoMark, measure int) ([]lookup.Glyph, error) {
	var res []lookup.Glyph
	if text := strings.TrimSpace(t.Text); text != "" {
		res = append(res, lookup.WordSign)
		res = append(res, lookup.Text(text)...)
		res = append(res, lookup.WordEnd)
	}
	if t.Metronome != nil {
		mm, ok := MetronomeMark(*t.Metronome)
		if !ok {
			return nil, brerrors.NewEncodingError(measure, t.At, "malformed metronome mark")
		}
		res = append(res, mm...)
	}
	return res, nil
}

// MetronomeMark writes the beat value, an equals sign and the rate.
func MetronomeMark(m model.Metronome) ([]lookup.Glyph, bool) {
	value, ok := lookup.NoteValue(model.StepC, m.Referent.Type)
	if !ok || m.PerMinute <= 0 {
		return nil, false
	}
	res := []lookup.Glyph{value}
	res = append(res, lookup.Dots(m.Referent.Dots)...)
	return append(res, lookup.MetronomeEq, lookup.Number(m.PerMinute)), true
}

// octaveMark decides whether p needs an octave mark, following the reading
// rule: seconds and thirds never, fourths and fifths only across an octave
// line, sixths and wider always. The first pitch after a reset is marked.
func (e *Encoder) octaveMark(p model.Pitch, st *State, measure int, offset float64) ([]lookup.Glyph, error) {
	mark, ok := lookup.OctaveMark(p.Octave)
	if !ok {
		return nil, brerrors.NewEncodingError(measure, offset, "pitch %v outside the representable octaves", p)
	}
	prev := st.Reference
	st.Reference = &p
	if e.opts.SuppressOctaveMarks {
		return nil, nil
	}
	if prev == nil {
		return []lookup.Glyph{mark}, nil
	}
	interval := p.Diatonic() - prev.Diatonic()
	if interval < 0 {
		interval = -interval
	}
	interval++
	switch {
	case interval <= 3:
		return nil, nil
	case interval <= 5 && p.Octave == prev.Octave:
		return nil, nil
	}
	return []lookup.Glyph{mark}, nil
}

func (e *Encoder) noteValue(step model.Step, d model.Duration, grouped bool, measure int, offset float64) ([]lookup.Glyph, error) {
	if grouped {
		return []lookup.Glyph{lookup.EighthForm(step)}, nil
	}
	gl, ok := lookup.NoteValue(step, d.Type)
	if !ok {
		return nil, brerrors.NewEncodingError(measure, offset, "unsupported note value %v", d)
	}
	return append([]lookup.Glyph{gl}, lookup.Dots(d.Dots)...), nil
}

// fingering writes finger numbers. A choice "upper|lower" is written upper
// first unless the options ask for the lower number first.
func (e *Encoder) fingering(f string, measure int, offset float64) ([]lookup.Glyph, error) {
	f = strings.TrimSpace(f)
	if f == "" {
		return nil, nil
	}
	fingers := func(s string) ([]lookup.Glyph, error) {
		var res []lookup.Glyph
		for _, r := range s {
			gl, ok := lookup.Finger(r)
			if !ok {
				return nil, brerrors.NewEncodingError(measure, offset, "invalid fingering %q", f)
			}
			res = append(res, gl)
		}
		return res, nil
	}

	upper, lower, choice := strings.Cut(f, "|")
	if !choice {
		return fingers(f)
	}
	if !e.opts.UpperFirstInNoteFingering {
		upper, lower = lower, upper
	}
	first, err := fingers(upper)
	if err != nil {
		return nil, err
	}
	second, err := fingers(lower)
	if err != nil {
		return nil, err
	}
	res := append(first, lookup.FingerChoice)
	return append(res, second...), nil
}
