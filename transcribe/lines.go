package transcribe

import (
	"strings"

	"github.com/jsphweid/musicbraille/lookup"
)

// Lines is transcribed braille, one glyph sequence per output line.
type Lines struct {
	lines [][]lookup.Glyph
}

func (l *Lines) add(line []lookup.Glyph) {
	l.lines = append(l.lines, line)
}

// Append adds other's lines after l's.
func (l *Lines) Append(other Lines) {
	l.lines = append(l.lines, other.lines...)
}

func (l Lines) Len() int { return len(l.lines) }

// Width is the widest line, in cells.
func (l Lines) Width() int {
	var w int
	for _, line := range l.lines {
		w = max(w, lookup.Width(line))
	}
	return w
}

// String joins the braille of every line with newlines.
func (l Lines) String() string {
	out := make([]string, len(l.lines))
	for i, line := range l.lines {
		out[i] = lookup.Join(line)
	}
	return strings.Join(out, "\n")
}

// Debug renders each line as its glyph names separated by single spaces.
func (l Lines) Debug() string {
	out := make([]string, len(l.lines))
	for i, line := range l.lines {
		out[i] = lookup.Names(line)
	}
	return strings.Join(out, "\n")
}

// Render picks the braille or the debug trace.
func (l Lines) Render(debug bool) string {
	if debug {
		return l.Debug()
	}
	return l.String()
}
