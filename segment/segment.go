// Package segment cuts a part into independently transcribable units that
// fit a braille line budget.
package segment

import (
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/encode"
	"github.com/jsphweid/musicbraille/lookup"
	"github.com/jsphweid/musicbraille/model"
)

const epsilon = 1e-9

// Slice is the part of one measure that falls into a segment.
type Slice struct {
	// Pos is the measure's index in Part.Measures.
	Pos    int
	Number int
	// From is the index of Events[0] within the measure.
	From   int
	Events []model.Event
	// Resumed is set when the measure began in the previous segment.
	Resumed bool
	// Continued is set when the measure goes on in the next segment.
	Continued bool
}

// Ref locates the slice's i-th event for the part's Analysis.
func (s Slice) Ref(i int) encode.Ref {
	return encode.Ref{Measure: s.Pos, Index: s.From + i}
}

// Heading holds the signatures in force at a segment's start.
type Heading struct {
	Key   *model.KeySignature
	Time  *model.TimeSignature
	Tempo *model.TempoMark
	Clef  *model.Clef
}

type Segment struct {
	Index    int
	Measures []Slice

	StartMeasure int
	StartOffset  float64
	Heading      Heading
	// OutgoingKey is the key in force before the segment's first event.
	OutgoingKey *int
	// Clef is the clef in force before the segment's first event.
	Clef model.ClefKind

	ShowHeading            bool
	ShowFirstMeasureNumber bool
	Hand                   config.Hand
	// Width is the line budget the body is expected to use.
	Width int

	Analysis *encode.Analysis
}

// Range names the measures covered, e.g. "3", "3-7", "4:1.5-6" or "2-4+"
// when measure 4 goes on in the next segment.
func (s Segment) Range() string {
	if len(s.Measures) == 0 {
		return ""
	}
	start := fmt.Sprint(s.StartMeasure)
	if s.StartOffset > epsilon {
		start = fmt.Sprintf("%d:%g", s.StartMeasure, s.StartOffset)
	}
	last := s.Measures[len(s.Measures)-1]
	if len(s.Measures) == 1 && !last.Continued {
		return start
	}
	end := fmt.Sprint(last.Number)
	if last.Continued {
		end += "+"
	}
	return start + "-" + end
}

// EventCount is the number of events the segment covers.
func (s Segment) EventCount() int {
	var n int
	for _, m := range s.Measures {
		n += len(m.Events)
	}
	return n
}

// piece is a slice plus what the segmenter knows about its start.
type piece struct {
	Slice
	forced  bool
	start   float64
	width   int
	// headed is the part of width a heading takes over: the signatures at
	// the piece's start and the blank cell after them.
	headed  int
	heading Heading
	key     *int
	clef    model.ClefKind
}

// Split cuts a measure-organized part into segments. A part with no events
// yields no segments.
func Split(part model.Part, opts config.Options) ([]Segment, error) {
	prepared := Prepare(part, opts)
	analysis := encode.Analyze(prepared, opts)
	pieces, err := cut(prepared, analysis, splitPoints(prepared, opts), opts, false)
	if err != nil {
		return nil, err
	}
	groups := pack(len(pieces), func(i int) (int, bool) { return pieces[i].width, pieces[i].forced },
		func(i, gi int) int { return lead(pieces[i], opts, opts.ShowHand, showsHeading(opts, gi)) }, opts.MaxLineLength)
	return build(pieces, groups, analysis, opts, opts.ShowHand), nil
}

// SplitKeyboard segments two staves with one boundary set so the results
// pair up index by index. Staves with unequal measure counts are segmented
// independently and left for the combiner to reject.
func SplitKeyboard(upper, lower model.Part, opts config.Options) ([]Segment, []Segment, error) {
	up, low := opts, opts
	up.ShowHand, low.ShowHand = config.RightHand, config.LeftHand
	if len(upper.Measures) != len(lower.Measures) {
		u, err := Split(upper, up)
		if err != nil {
			return nil, nil, err
		}
		l, err := Split(lower, low)
		if err != nil {
			return nil, nil, err
		}
		return u, l, nil
	}

	pu, pl := Prepare(upper, up), Prepare(lower, low)
	au, al := encode.Analyze(pu, up), encode.Analyze(pl, low)
	points := alignPoints(mergePoints(splitPoints(pu, opts), splitPoints(pl, opts)), pu, pl)
	// empty slices are kept so both staves cut into the same pieces
	uPieces, err := cut(pu, au, points, up, true)
	if err != nil {
		return nil, nil, err
	}
	lPieces, err := cut(pl, al, points, low, true)
	if err != nil {
		return nil, nil, err
	}

	groups := pack(len(uPieces),
		func(i int) (int, bool) {
			return max(uPieces[i].width, lPieces[i].width), uPieces[i].forced || lPieces[i].forced
		},
		func(i, gi int) int {
			headed := showsHeading(opts, gi)
			return max(lead(uPieces[i], up, up.ShowHand, headed), lead(lPieces[i], low, low.ShowHand, headed))
		},
		opts.MaxLineLength)
	return build(uPieces, groups, au, up, up.ShowHand),
		build(lPieces, groups, al, low, low.ShowHand), nil
}

// Prepare copies the part with each measure's events ordered by offset and
// the requested dummy rests placed before the first sounding event.
func Prepare(part model.Part, opts config.Options) model.Part {
	res := part
	res.Measures = make([]model.Measure, len(part.Measures))
	for i, m := range part.Measures {
		m.Events = append([]model.Event(nil), m.Events...)
		m.SortEvents()
		res.Measures[i] = m
	}
	if opts.DummyRestLength > 0 && len(res.Measures) > 0 {
		first := &res.Measures[0]
		at := len(first.Events)
		for i, e := range first.Events {
			if _, ok := model.EventDuration(e); ok {
				at = i
				break
			}
		}
		var offset float64
		if at < len(first.Events) {
			offset = first.Events[at].Offset()
		}
		rests := make([]model.Event, opts.DummyRestLength)
		for i := range rests {
			rests[i] = model.Rest{
				Position: model.At(offset),
				Duration: model.Duration{Type: model.Quarter},
				Dummy:    true,
			}
		}
		events := append([]model.Event(nil), first.Events[:at]...)
		events = append(events, rests...)
		first.Events = append(events, first.Events[at:]...)
	}
	return res
}

// point is a forced boundary: a measure position and an offset in it. Offset
// zero means a boundary before the measure.
type point struct {
	pos    int
	offset float64
}

func (p point) less(o point) bool {
	if p.pos != o.pos {
		return p.pos < o.pos
	}
	return p.offset < o.offset-epsilon
}

// splitPoints collects requested breaks and signature changes.
func splitPoints(part model.Part, opts config.Options) []point {
	var points []point
	add := func(pos int, offset float64) {
		if events := part.Measures[pos].Events; len(events) == 0 || offset <= events[0].Offset()+epsilon {
			offset = 0
		}
		if pos == 0 && offset == 0 {
			return
		}
		points = append(points, point{pos, offset})
	}

	for _, b := range opts.SegmentBreaks {
		for pos, m := range part.Measures {
			if m.Number != b.Measure {
				continue
			}
			add(pos, b.Offset)
			break
		}
	}

	var key, time, clef model.Event
	changed := func(cur *model.Event, e model.Event) bool {
		prev := *cur
		*cur = e
		if prev == nil {
			return false
		}
		switch v := e.(type) {
		case model.KeySignature:
			return prev.(model.KeySignature).Fifths != v.Fifths
		case model.TimeSignature:
			p := prev.(model.TimeSignature)
			return p.Numerator != v.Numerator || p.Denominator != v.Denominator || p.Symbol != v.Symbol
		case model.Clef:
			return prev.(model.Clef).Type != v.Type
		}
		return false
	}
	for pos, m := range part.Measures {
		for _, e := range m.Events {
			var c bool
			switch e.(type) {
			case model.KeySignature:
				c = changed(&key, e)
			case model.TimeSignature:
				c = changed(&time, e)
			case model.Clef:
				c = changed(&clef, e)
			default:
				continue
			}
			if c {
				add(pos, e.Offset())
			}
		}
	}
	return mergePoints(points)
}

// mergePoints sorts and deduplicates point sets.
func mergePoints(sets ...[]point) []point {
	var all []point
	for _, s := range sets {
		all = append(all, s...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].less(all[j]) })
	var res []point
	for _, p := range all {
		if len(res) > 0 && !res[len(res)-1].less(p) {
			continue
		}
		res = append(res, p)
	}
	return res
}

// alignPoints keeps a split inside a measure only when both staves have
// events on either side of it; otherwise the split moves to the start of the
// measure so neither staff gets an empty slice.
func alignPoints(points []point, upper, lower model.Part) []point {
	res := make([]point, 0, len(points))
	for _, p := range points {
		if p.offset > 0 && !(splits(upper.Measures[p.pos], p.offset) && splits(lower.Measures[p.pos], p.offset)) {
			p.offset = 0
		}
		if p.pos == 0 && p.offset == 0 {
			continue
		}
		res = append(res, p)
	}
	return mergePoints(res)
}

func splits(m model.Measure, offset float64) bool {
	var before, after bool
	for _, e := range m.Events {
		if e.Offset() < offset-epsilon {
			before = true
		} else {
			after = true
		}
	}
	return before && after
}

// cut turns measures into pieces at the split points and measures each
// piece's encoded width with a fresh state.
func cut(part model.Part, analysis *encode.Analysis, points []point, opts config.Options, keepEmpty bool) ([]piece, error) {
	offsets := make(map[int][]float64)
	forcedStart := make(map[int]bool)
	for _, p := range points {
		if p.offset == 0 {
			forcedStart[p.pos] = true
		} else {
			offsets[p.pos] = append(offsets[p.pos], p.offset)
		}
	}

	enc := encode.New(opts, analysis)
	var (
		pieces []piece
		key    *int
		clef   model.ClefKind
		inTime *model.TimeSignature
		inKey  *model.KeySignature
		inClef *model.Clef
	)
	for pos, m := range part.Measures {
		cuts := append([]float64{0}, offsets[pos]...)
		for k, start := range cuts {
			end := math.Inf(1)
			if k+1 < len(cuts) {
				end = cuts[k+1]
			}
			from, to := -1, len(m.Events)
			for i, e := range m.Events {
				if from < 0 && e.Offset() >= start-epsilon {
					from = i
				}
				if e.Offset() >= end-epsilon {
					to = i
					break
				}
			}
			if from < 0 || from > to {
				from = to
			}
			if k > 0 && from == to && !keepEmpty {
				continue
			}

			pc := piece{
				Slice: Slice{
					Pos:     pos,
					Number:  m.Number,
					From:    from,
					Events:  m.Events[from:to],
					Resumed: k > 0,
				},
				forced: k > 0 || forcedStart[pos],
				start:  start,
				key:    key,
				clef:   clef,
			}

			var tempo *model.TempoMark
			for _, e := range pc.Events {
				atStart := e.Offset() <= pc.Events[0].Offset()+epsilon
				switch v := e.(type) {
				case model.KeySignature:
					f := v.Fifths
					key = &f
					inKey = &v
				case model.TimeSignature:
					inTime = &v
				case model.Clef:
					clef = v.Type
					inClef = &v
				case model.TempoMark:
					if atStart {
						tempo = &v
					}
				}
				if atStart {
					pc.heading = Heading{Key: inKey, Time: inTime, Tempo: tempo, Clef: inClef}
				}
			}
			if len(pc.Events) == 0 {
				pc.heading = Heading{Key: inKey, Time: inTime, Clef: inClef}
			}

			st := encode.NewState(pc.key, pc.clef)
			signed, inline := false, false
			for i, e := range pc.Events {
				gl, err := enc.Encode(e, pc.Ref(i), m.Number, st)
				if err != nil {
					return nil, err
				}
				w := lookup.Width(gl)
				pc.width += w
				switch e.(type) {
				case model.KeySignature, model.TimeSignature, model.TempoMark:
					signed = signed || w > 0
					if e.Offset() <= pc.Events[0].Offset()+epsilon {
						pc.headed += w
					} else {
						inline = inline || w > 0
					}
				}
			}
			// the separator or music hyphen, and the space after inline signatures
			pc.width++
			if signed {
				pc.width++
				if !inline {
					pc.headed++
				}
			}
			pieces = append(pieces, pc)
		}
		// a slice goes on only when a later slice of its measure has events
		more := false
		for i := len(pieces) - 1; i >= 0 && pieces[i].Pos == pos; i-- {
			pieces[i].Continued = more
			more = more || len(pieces[i].Events) > 0
		}
	}
	return pieces, nil
}

// prefixWidth is what a segment starting with s writes before its events.
func prefixWidth(s Slice, opts config.Options, hand config.Hand) int {
	var w int
	if opts.ShowFirstMeasureNumber && !s.Resumed {
		w += lookup.Number(s.Number).Width() + lookup.Space.Width()
	}
	switch hand {
	case config.RightHand:
		w += lookup.RightHand.Width()
	case config.LeftHand:
		w += lookup.LeftHand.Width()
	}
	return w
}

// lead is what a segment starting with p writes before its events, less
// what a heading takes over.
func lead(p piece, opts config.Options, hand config.Hand, heading bool) int {
	w := prefixWidth(p.Slice, opts, hand)
	if heading {
		w -= p.headed
	}
	return w
}

// showsHeading reports whether the gi-th segment of a part gets a heading.
func showsHeading(opts config.Options, gi int) bool {
	return opts.ShowHeading && (gi == 0 || opts.RepeatHeading)
}

// pack groups consecutive pieces greedily. A group closes before a forced
// piece or before a piece that would push it past the budget; a piece wider
// than the budget on its own still gets a group.
func pack(n int, size func(int) (int, bool), prefix func(i, gi int) int, budget int) [][]int {
	var (
		groups [][]int
		cur    []int
		used   int
	)
	for i := 0; i < n; i++ {
		w, forced := size(i)
		if len(cur) > 0 && (forced || used+w > budget) {
			groups = append(groups, cur)
			cur = nil
		}
		if len(cur) == 0 {
			used = prefix(i, len(groups))
		}
		cur = append(cur, i)
		used += w
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

func build(pieces []piece, groups [][]int, analysis *encode.Analysis, opts config.Options, hand config.Hand) []Segment {
	var segments []Segment
	for gi, group := range groups {
		first := pieces[group[0]]
		seg := Segment{
			Index:                  gi,
			StartMeasure:           first.Number,
			Heading:                first.heading,
			OutgoingKey:            first.key,
			Clef:                   first.clef,
			ShowHeading:            showsHeading(opts, gi),
			ShowFirstMeasureNumber: opts.ShowFirstMeasureNumber,
			Hand:                   hand,
			Width:                  lead(first, opts, hand, showsHeading(opts, gi)),
			Analysis:               analysis,
		}
		if first.Resumed {
			seg.StartOffset = first.start
		}
		for _, i := range group {
			seg.Measures = append(seg.Measures, pieces[i].Slice)
			seg.Width += pieces[i].width
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil
	}
	// a part with measures but no events still yields nothing to write
	var events int
	for _, s := range segments {
		events += s.EventCount()
	}
	if events == 0 {
		return nil
	}
	return segments
}
