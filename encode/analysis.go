package encode

import (
	"math"

	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/lookup"
	"github.com/jsphweid/musicbraille/model"
)

// LongPhrase is the number of slurred notes from which a phrase is long.
const LongPhrase = 4

const epsilon = 1e-9

type marks struct {
	before []lookup.Glyph
	after  []lookup.Glyph
}

// Analysis holds decisions that need context beyond one event: slur glyph
// placement over whole phrases and eighth-form grouping within beats. It is
// computed once per part and is read only afterwards.
type Analysis struct {
	marks   map[Ref]*marks
	grouped map[Ref]bool
}

type slurItem struct {
	ref  Ref
	tie  model.Tie
	slur model.Slur
}

// Analyze resolves phrasing and grouping for a measure-organized part.
func Analyze(part model.Part, opts config.Options) *Analysis {
	a := &Analysis{
		marks:   make(map[Ref]*marks),
		grouped: make(map[Ref]bool),
	}
	a.analyzePhrases(part, opts)
	a.analyzeGrouping(part)
	return a
}

func (a *Analysis) mark(ref Ref) *marks {
	m, ok := a.marks[ref]
	if !ok {
		m = &marks{}
		a.marks[ref] = m
	}
	return m
}

func (a *Analysis) before(ref Ref) []lookup.Glyph {
	if a == nil {
		return nil
	}
	if m, ok := a.marks[ref]; ok {
		return m.before
	}
	return nil
}

func (a *Analysis) after(ref Ref) []lookup.Glyph {
	if a == nil {
		return nil
	}
	if m, ok := a.marks[ref]; ok {
		return m.after
	}
	return nil
}

// Grouped reports whether the event is written in eighth form.
func (a *Analysis) Grouped(ref Ref) bool {
	return a != nil && a.grouped[ref]
}

func (a *Analysis) analyzePhrases(part model.Part, opts config.Options) {
	var items []slurItem
	for mi, m := range part.Measures {
		for ei, e := range m.Events {
			switch ev := e.(type) {
			case model.Note:
				items = append(items, slurItem{ref: Ref{mi, ei}, tie: ev.Tie, slur: ev.Slur})
			case model.Chord:
				items = append(items, slurItem{ref: Ref{mi, ei}, tie: ev.Tie, slur: ev.Slur})
			}
		}
	}

	open := -1
	for i, it := range items {
		if open >= 0 && i > open && it.slur.Stops() {
			a.addPhrase(items, open, i, opts)
			open = -1
			continue
		}
		if open < 0 && it.slur.Starts() {
			open = i
		}
	}
}

func (a *Analysis) addPhrase(items []slurItem, start, end int, opts config.Options) {
	together := opts.ShowShortSlursAndTiesTogether
	if end-start+1 >= LongPhrase {
		together = opts.ShowLongSlursAndTiesTogether
	}
	if !together {
		// ties at either edge take over that part of the slur
		for start < end && items[start].tie.Continues() {
			start++
		}
		for end > start && items[end].tie.Arrives() {
			end--
		}
	}
	length := end - start + 1
	if length < 2 {
		return
	}

	if length < LongPhrase {
		for k := start; k < end; k++ {
			m := a.mark(items[k].ref)
			m.after = append(m.after, lookup.ShortSlur)
		}
		return
	}
	if opts.SlurLongPhraseWithBrackets {
		first := a.mark(items[start].ref)
		first.before = append(first.before, lookup.BracketOpen)
		last := a.mark(items[end].ref)
		last.after = append(last.after, lookup.BracketClose)
		return
	}
	first := a.mark(items[start].ref)
	first.after = append(first.after, lookup.DoubleSlur)
	penultimate := a.mark(items[end-1].ref)
	penultimate.after = append(penultimate.after, lookup.ShortSlur)
}

// analyzeGrouping finds beats filled by three or more single notes of one
// undotted value of a 16th or shorter. All but the first of them are written
// in eighth form.
func (a *Analysis) analyzeGrouping(part model.Part) {
	ts := model.TimeSignature{Numerator: 4, Denominator: 4}
	for mi, m := range part.Measures {
		for _, e := range m.Events {
			if t, ok := e.(model.TimeSignature); ok && t.Denominator > 0 {
				ts = t
			}
		}
		beat := ts.BeatLength()
		if beat <= 0 {
			continue
		}

		byBeat := make(map[int][]int)
		var order []int
		for ei, e := range m.Events {
			if _, ok := model.EventDuration(e); !ok {
				continue
			}
			if r, ok := e.(model.Rest); ok && r.Dummy {
				continue
			}
			b := int(math.Floor(e.Offset()/beat + epsilon))
			if _, seen := byBeat[b]; !seen {
				order = append(order, b)
			}
			byBeat[b] = append(byBeat[b], ei)
		}

		for _, b := range order {
			idx := byBeat[b]
			if groupable(m.Events, idx, float64(b)*beat, beat) {
				for _, ei := range idx[1:] {
					a.grouped[Ref{mi, ei}] = true
				}
			}
		}
	}
}

func groupable(events []model.Event, idx []int, start, beat float64) bool {
	if len(idx) < 3 {
		return false
	}
	first, ok := events[idx[0]].(model.Note)
	if !ok || first.Duration.Type < model.Sixteenth || first.Duration.Dots != 0 {
		return false
	}
	if math.Abs(first.Offset()-start) > epsilon {
		return false
	}
	pos := start
	for _, ei := range idx {
		n, ok := events[ei].(model.Note)
		if !ok || n.Duration != first.Duration || math.Abs(n.Offset()-pos) > epsilon {
			return false
		}
		pos += n.Duration.QuarterLength()
	}
	return math.Abs(pos-(start+beat)) <= epsilon
}
