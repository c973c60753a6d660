// Package timeline reads scores written as JSON event timelines. A part
// lists either measures of events, offset from the measure start, or a flat
// list of events offset from the part start:
//
//	{
//	  "metadata": {"title": "Minuet"},
//	  "parts": [{
//	    "id": "P1",
//	    "measures": [{"number": 1, "events": [
//	      {"kind": "time", "numerator": 3, "denominator": 4},
//	      {"kind": "note", "pitch": "C4", "duration": "quarter"}
//	    ]}]
//	  }]
//	}
package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jsphweid/musicbraille/model"
)

type File struct {
	Metadata map[string]string `json:"metadata,omitempty"`
	Parts    []Part            `json:"parts"`
}

type Part struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Staff    string    `json:"staff,omitempty"`
	Measures []Measure `json:"measures,omitempty"`
	Events   []Event   `json:"events,omitempty"`
}

type Measure struct {
	Number int     `json:"number"`
	Events []Event `json:"events"`
}

// Event is the union of every event kind; Kind picks the fields that apply.
type Event struct {
	Kind string  `json:"kind"`
	At   float64 `json:"at,omitempty"`

	Pitch      string   `json:"pitch,omitempty"`
	Pitches    []string `json:"pitches,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Dots       int      `json:"dots,omitempty"`
	Accidental string   `json:"accidental,omitempty"`
	Fingering  string   `json:"fingering,omitempty"`
	Tie        string   `json:"tie,omitempty"`
	Slur       string   `json:"slur,omitempty"`
	Dummy      bool     `json:"dummy,omitempty"`

	Symbol      string `json:"symbol,omitempty"`
	Fifths      int    `json:"fifths,omitempty"`
	Numerator   int    `json:"numerator,omitempty"`
	Denominator int    `json:"denominator,omitempty"`
	Clef        string `json:"clef,omitempty"`
	Text        string `json:"text,omitempty"`
	PerMinute   int    `json:"perMinute,omitempty"`
	Style       string `json:"style,omitempty"`
}

// ReadScore reads the timeline file at path.
func ReadScore(path string) (model.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Score{}, fmt.Errorf("open timeline: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a timeline from r. Unknown fields are rejected.
func Decode(r io.Reader) (model.Score, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return model.Score{}, fmt.Errorf("decode timeline: %w", err)
	}
	return file.Score()
}

// Score converts the file into the model.
func (f File) Score() (model.Score, error) {
	var score model.Score
	if len(f.Metadata) > 0 {
		ids := make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			ids[k] = v
		}
		score.Metadata = []model.Metadata{{WorkIDs: ids}}
	}
	for i, p := range f.Parts {
		part, err := p.part()
		if err != nil {
			return model.Score{}, fmt.Errorf("part %d: %w", i+1, err)
		}
		if part.ID == "" {
			part.ID = fmt.Sprintf("P%d", i+1)
		}
		score.Parts = append(score.Parts, part)
	}
	return score, nil
}

func (p Part) part() (model.Part, error) {
	res := model.Part{ID: p.ID, Name: p.Name}
	switch strings.ToLower(p.Staff) {
	case "":
	case "upper", "right":
		res.Staff = model.UpperStaff
	case "lower", "left":
		res.Staff = model.LowerStaff
	default:
		return model.Part{}, fmt.Errorf("unknown staff %q", p.Staff)
	}
	if len(p.Measures) > 0 && len(p.Events) > 0 {
		return model.Part{}, fmt.Errorf("part has both measures and loose events")
	}

	for i, m := range p.Measures {
		number := m.Number
		if number == 0 {
			number = i + 1
		}
		measure := model.Measure{Number: number}
		for j, e := range m.Events {
			ev, err := e.Event()
			if err != nil {
				return model.Part{}, fmt.Errorf("measure %d event %d: %w", number, j+1, err)
			}
			measure.Events = append(measure.Events, ev)
		}
		res.Measures = append(res.Measures, measure)
	}
	for j, e := range p.Events {
		ev, err := e.Event()
		if err != nil {
			return model.Part{}, fmt.Errorf("event %d: %w", j+1, err)
		}
		res.Loose = append(res.Loose, ev)
	}
	return res, nil
}

// Event converts e into a model event.
func (e Event) Event() (model.Event, error) {
	pos := model.At(e.At)
	switch strings.ToLower(e.Kind) {
	case "note":
		n, err := e.note(e.Pitch)
		if err != nil {
			return nil, err
		}
		n.Position = pos
		return n, nil
	case "chord":
		if len(e.Pitches) == 0 {
			return nil, fmt.Errorf("chord without pitches")
		}
		d, err := e.duration()
		if err != nil {
			return nil, err
		}
		tie, slur, err := e.connections()
		if err != nil {
			return nil, err
		}
		c := model.Chord{Position: pos, Duration: d, Fingering: e.Fingering, Tie: tie, Slur: slur}
		for _, name := range e.Pitches {
			pitch, err := model.ParsePitch(name)
			if err != nil {
				return nil, err
			}
			c.Notes = append(c.Notes, model.Note{Pitch: pitch, Duration: d})
		}
		return c, nil
	case "rest":
		d, err := e.duration()
		if err != nil {
			return nil, err
		}
		return model.Rest{Position: pos, Duration: d, Dummy: e.Dummy}, nil
	case "dynamic":
		if e.Symbol == "" {
			return nil, fmt.Errorf("dynamic without symbol")
		}
		return model.Dynamic{Position: pos, Symbol: e.Symbol}, nil
	case "key":
		return model.KeySignature{Position: pos, Fifths: e.Fifths}, nil
	case "time":
		return model.TimeSignature{Position: pos, Numerator: e.Numerator, Denominator: e.Denominator, Symbol: e.Symbol}, nil
	case "clef":
		switch kind := model.ClefKind(strings.ToLower(e.Clef)); kind {
		case model.TrebleClef, model.BassClef, model.AltoClef, model.TenorClef:
			return model.Clef{Position: pos, Type: kind}, nil
		}
		return nil, fmt.Errorf("unknown clef %q", e.Clef)
	case "tempo":
		t := model.TempoMark{Position: pos, Text: e.Text}
		if e.PerMinute > 0 {
			referent := model.Duration{Type: model.Quarter, Dots: e.Dots}
			if e.Duration != "" {
				d, err := e.duration()
				if err != nil {
					return nil, err
				}
				referent = d
			}
			t.Metronome = &model.Metronome{Referent: referent, PerMinute: e.PerMinute}
		}
		return t, nil
	case "barline":
		style := model.BarStyle(strings.ToLower(e.Style))
		if style == "" {
			style = model.BarRegular
		}
		return model.Barline{Position: pos, Style: style}, nil
	}
	return nil, fmt.Errorf("unknown event kind %q", e.Kind)
}

func (e Event) note(name string) (model.Note, error) {
	pitch, err := model.ParsePitch(name)
	if err != nil {
		return model.Note{}, err
	}
	d, err := e.duration()
	if err != nil {
		return model.Note{}, err
	}
	acc, err := parseAccidental(e.Accidental)
	if err != nil {
		return model.Note{}, err
	}
	tie, slur, err := e.connections()
	if err != nil {
		return model.Note{}, err
	}
	return model.Note{Pitch: pitch, Duration: d, Accidental: acc, Fingering: e.Fingering, Tie: tie, Slur: slur}, nil
}

func (e Event) duration() (model.Duration, error) {
	if e.Duration == "" {
		return model.Duration{}, fmt.Errorf("%s without duration", e.Kind)
	}
	t, err := model.ParseDurationType(e.Duration)
	if err != nil {
		return model.Duration{}, err
	}
	return model.Duration{Type: t, Dots: e.Dots}, nil
}

func (e Event) connections() (model.Tie, model.Slur, error) {
	var tie model.Tie
	switch strings.ToLower(e.Tie) {
	case "":
	case "start":
		tie = model.TieStart
	case "continue":
		tie = model.TieContinue
	case "stop":
		tie = model.TieStop
	default:
		return 0, 0, fmt.Errorf("unknown tie %q", e.Tie)
	}
	var slur model.Slur
	for _, s := range strings.Fields(strings.ReplaceAll(e.Slur, ",", " ")) {
		switch strings.ToLower(s) {
		case "start":
			slur |= model.SlurStart
		case "stop":
			slur |= model.SlurStop
		default:
			return 0, 0, fmt.Errorf("unknown slur %q", e.Slur)
		}
	}
	return tie, slur, nil
}

func parseAccidental(name string) (model.Accidental, error) {
	switch strings.ToLower(name) {
	case "":
		return model.NoAccidental, nil
	case "sharp":
		return model.Sharp, nil
	case "flat":
		return model.Flat, nil
	case "natural":
		return model.Natural, nil
	case "double-sharp":
		return model.DoubleSharp, nil
	case "double-flat":
		return model.DoubleFlat, nil
	}
	return model.NoAccidental, fmt.Errorf("unknown accidental %q", name)
}
