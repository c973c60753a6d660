package model

// Object is anything the translator accepts. The set of implementations is
// closed: events, Measure, Part, Score, Opus, KeyboardPair and Stream.
type Object interface {
	object()
}

// Event is one entry of a measure's timeline.
type Event interface {
	Object
	Offset() float64
	Kind() string
}

// Position carries an event's offset, in quarter notes, from its measure start.
type Position struct {
	At float64
}

func (p Position) Offset() float64 { return p.At }

func (Position) object() {}

func At(offset float64) Position { return Position{At: offset} }

type Accidental int

const (
	NoAccidental Accidental = iota
	Sharp
	Flat
	Natural
	DoubleSharp
	DoubleFlat
)

// AccidentalFor returns the accidental that spells an alteration explicitly.
func AccidentalFor(alter int) Accidental {
	switch alter {
	case 1:
		return Sharp
	case -1:
		return Flat
	case 2:
		return DoubleSharp
	case -2:
		return DoubleFlat
	}
	return Natural
}

type Tie int

const (
	NoTie Tie = iota
	TieStart
	TieContinue
	TieStop
)

// Continues reports whether the tie carries on into the following note.
func (t Tie) Continues() bool { return t == TieStart || t == TieContinue }

// Arrives reports whether the tie comes in from the preceding note.
func (t Tie) Arrives() bool { return t == TieStop || t == TieContinue }

type Slur int

const (
	SlurStart Slur = 1 << iota
	SlurStop
)

func (s Slur) Starts() bool { return s&SlurStart != 0 }

func (s Slur) Stops() bool { return s&SlurStop != 0 }

type Note struct {
	Position
	Pitch      Pitch
	Duration   Duration
	Accidental Accidental
	Fingering  string
	Tie        Tie
	Slur       Slur
}

func (Note) Kind() string { return "note" }

type Rest struct {
	Position
	Duration Duration
	// Dummy rests are layout placeholders with no musical meaning.
	Dummy bool
}

func (Rest) Kind() string { return "rest" }

type Dynamic struct {
	Position
	Symbol string
}

func (Dynamic) Kind() string { return "dynamic" }

// KeySignature counts sharps (positive) or flats (negative).
type KeySignature struct {
	Position
	Fifths int
}

func (KeySignature) Kind() string { return "key signature" }

// AlterFor returns the alteration the signature applies to a step.
func (k KeySignature) AlterFor(s Step) int {
	sharpOrder := []Step{StepF, StepC, StepG, StepD, StepA, StepE, StepB}
	flatOrder := []Step{StepB, StepE, StepA, StepD, StepG, StepC, StepF}
	if k.Fifths > 0 {
		for _, st := range sharpOrder[:min(k.Fifths, 7)] {
			if st == s {
				return 1
			}
		}
	}
	if k.Fifths < 0 {
		for _, st := range flatOrder[:min(-k.Fifths, 7)] {
			if st == s {
				return -1
			}
		}
	}
	return 0
}

type TimeSignature struct {
	Position
	Numerator   int
	Denominator int
	// Symbol is "common", "cut" or empty for numeric display.
	Symbol string
}

func (TimeSignature) Kind() string { return "time signature" }

func (t TimeSignature) BarLength() float64 {
	return float64(t.Numerator) * 4 / float64(t.Denominator)
}

// BeatLength is the length of one beat, a dotted value in compound meters.
func (t TimeSignature) BeatLength() float64 {
	unit := 4 / float64(t.Denominator)
	if t.Numerator > 3 && t.Numerator%3 == 0 {
		return unit * 3
	}
	return unit
}

type ClefKind string

const (
	TrebleClef ClefKind = "treble"
	BassClef   ClefKind = "bass"
	AltoClef   ClefKind = "alto"
	TenorClef  ClefKind = "tenor"
)

type Clef struct {
	Position
	Type ClefKind
}

func (Clef) Kind() string { return "clef" }

type Metronome struct {
	Referent  Duration
	PerMinute int
}

type TempoMark struct {
	Position
	Text      string
	Metronome *Metronome
}

func (TempoMark) Kind() string { return "tempo" }

type BarStyle string

const (
	BarRegular     BarStyle = "regular"
	BarDouble      BarStyle = "double"
	BarFinal       BarStyle = "final"
	BarDashed      BarStyle = "dashed"
	BarStartRepeat BarStyle = "start-repeat"
	BarEndRepeat   BarStyle = "end-repeat"
)

type Barline struct {
	Position
	Style BarStyle
}

func (Barline) Kind() string { return "barline" }
