// Package transcribe writes segments as braille lines and pairs the
// segments of a keyboard's two staves.
package transcribe

import (
	"strings"

	"github.com/jsphweid/musicbraille/brerrors"
	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/encode"
	"github.com/jsphweid/musicbraille/lookup"
	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/segment"
)

const epsilon = 1e-9

// continuation lines start with two blank cells
var indent = []lookup.Glyph{lookup.Space, lookup.Space}

// Part transcribes a part's segments in order.
func Part(segs []segment.Segment, opts config.Options) (Lines, error) {
	var res Lines
	for _, seg := range segs {
		lines, err := Transcribe(seg, opts)
		if err != nil {
			return Lines{}, err
		}
		res.Append(lines)
	}
	return res, nil
}

// Transcribe writes one segment: an optional heading line, then the body
// wrapped at measure boundaries.
func Transcribe(seg segment.Segment, opts config.Options) (Lines, error) {
	st := encode.NewState(seg.OutgoingKey, seg.Clef)
	enc := encode.New(opts, seg.Analysis)

	var heading []lookup.Glyph
	consumed := make(map[encode.Ref]bool)
	if seg.ShowHeading {
		var err error
		heading, err = headingGlyphs(seg)
		if err != nil {
			return Lines{}, err
		}
		if seg.Heading.Key != nil {
			k := seg.Heading.Key.Fifths
			st.OutgoingKey = &k
		}
		if len(seg.Measures) > 0 {
			first := seg.Measures[0]
			for i, e := range first.Events {
				if e.Offset() > first.Events[0].Offset()+epsilon {
					break
				}
				switch e.(type) {
				case model.KeySignature, model.TimeSignature, model.TempoMark:
					consumed[first.Ref(i)] = true
				}
			}
		}
	}

	var chunks [][]lookup.Glyph
	handShown := false
	for mi, m := range seg.Measures {
		var chunk []lookup.Glyph
		if mi == 0 && seg.ShowFirstMeasureNumber && !m.Resumed {
			chunk = append(chunk, lookup.Number(m.Number), lookup.Space)
		}
		pendingSpace := false
		for i, e := range m.Events {
			ref := m.Ref(i)
			if consumed[ref] {
				continue
			}
			gl, err := enc.Encode(e, ref, m.Number, st)
			if err != nil {
				return Lines{}, err
			}
			if len(gl) == 0 {
				continue
			}
			if isSignature(e) {
				chunk = append(chunk, gl...)
				pendingSpace = true
				continue
			}
			if pendingSpace {
				chunk = append(chunk, lookup.Space)
				pendingSpace = false
			}
			if !handShown && isSounding(e) {
				if sign, ok := handSign(seg.Hand); ok {
					chunk = append(chunk, sign)
				}
				handShown = true
			}
			chunk = append(chunk, gl...)
		}
		if mi == len(seg.Measures)-1 && m.Continued {
			chunk = append(chunk, lookup.MusicHyphen)
		}
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}
	}

	body := wrap(chunks, opts.MaxLineLength, indent)
	var res Lines
	if len(heading) > 0 {
		// the heading breaks at blank cells and each line is centered
		head := wrap(words(heading), opts.MaxLineLength, nil)
		widest := head.Width()
		width := min(max(body.Width(), widest), max(opts.MaxLineLength, widest))
		for _, line := range head.lines {
			res.add(center(line, width))
		}
	}
	res.Append(body)
	return res, nil
}

func isSignature(e model.Event) bool {
	switch e.(type) {
	case model.KeySignature, model.TimeSignature, model.TempoMark:
		return true
	}
	return false
}

func isSounding(e model.Event) bool {
	switch e.(type) {
	case model.Note, model.Chord, model.Rest:
		return true
	}
	return false
}

func handSign(h config.Hand) (lookup.Glyph, bool) {
	switch h {
	case config.RightHand:
		return lookup.RightHand, true
	case config.LeftHand:
		return lookup.LeftHand, true
	}
	return lookup.Glyph{}, false
}

// headingGlyphs writes key and time, then tempo text, then the metronome
// mark, separated by blank cells.
func headingGlyphs(seg segment.Segment) ([]lookup.Glyph, error) {
	var groups [][]lookup.Glyph
	var keyTime []lookup.Glyph
	if k := seg.Heading.Key; k != nil {
		keyTime = append(keyTime, lookup.KeySignature(k.Fifths)...)
	}
	if t := seg.Heading.Time; t != nil {
		keyTime = append(keyTime, lookup.TimeSignature(*t)...)
	}
	groups = append(groups, keyTime)

	if tempo := seg.Heading.Tempo; tempo != nil {
		if text := strings.TrimSpace(tempo.Text); text != "" {
			letters := lookup.Text(strings.TrimSuffix(text, "."))
			groups = append(groups, append(letters, lookup.Period))
		}
		if tempo.Metronome != nil {
			mm, ok := encode.MetronomeMark(*tempo.Metronome)
			if !ok {
				return nil, brerrors.NewEncodingError(seg.StartMeasure, tempo.At, "malformed metronome mark")
			}
			groups = append(groups, mm)
		}
	}

	var res []lookup.Glyph
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if len(res) > 0 {
			res = append(res, lookup.Space)
		}
		res = append(res, g...)
	}
	return res, nil
}

// center pads glyphs with blank cells to width, extra cell on the right.
func center(glyphs []lookup.Glyph, width int) []lookup.Glyph {
	pad := width - lookup.Width(glyphs)
	left := pad / 2
	res := make([]lookup.Glyph, 0, len(glyphs)+pad)
	for i := 0; i < left; i++ {
		res = append(res, lookup.Space)
	}
	res = append(res, glyphs...)
	for i := 0; i < pad-left; i++ {
		res = append(res, lookup.Space)
	}
	return res
}

// words splits glyphs at blank cells.
func words(glyphs []lookup.Glyph) [][]lookup.Glyph {
	var (
		res  [][]lookup.Glyph
		word []lookup.Glyph
	)
	for _, gl := range glyphs {
		if gl == lookup.Space {
			if len(word) > 0 {
				res = append(res, word)
			}
			word = nil
			continue
		}
		word = append(word, gl)
	}
	if len(word) > 0 {
		res = append(res, word)
	}
	return res
}

// wrap joins chunks with blank cells, starting a new line behind prefix
// when the next chunk would pass the budget.
func wrap(chunks [][]lookup.Glyph, budget int, prefix []lookup.Glyph) Lines {
	var (
		res  Lines
		line []lookup.Glyph
	)
	for _, chunk := range chunks {
		switch {
		case len(line) == 0:
			line = append(line, chunk...)
		case lookup.Width(line)+1+lookup.Width(chunk) > budget:
			res.add(line)
			line = append(append([]lookup.Glyph(nil), prefix...), chunk...)
		default:
			line = append(line, lookup.Space)
			line = append(line, chunk...)
		}
	}
	if len(line) > 0 {
		res.add(line)
	}
	return res
}
