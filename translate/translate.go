// Package translate is the entry point of the transcoder: it routes any
// supported object to the matching transcription and joins the results.
package translate

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jsphweid/musicbraille/brerrors"
	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/logging"
	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/renotate"
	"github.com/jsphweid/musicbraille/segment"
	"github.com/jsphweid/musicbraille/transcribe"
)

// Translator holds the options and collaborators of a transcription. It
// keeps no state between calls and is safe for concurrent use.
type Translator struct {
	Options   config.Options
	Logger    *slog.Logger
	Renotator renotate.Renotator
}

// New returns a translator with the default renotator.
func New(opts config.Options, logger *slog.Logger) *Translator {
	return &Translator{
		Options:   opts,
		Logger:    logging.OrNop(logger),
		Renotator: renotate.Default{},
	}
}

func (t *Translator) renotator() renotate.Renotator {
	if t.Renotator == nil {
		return renotate.Default{}
	}
	return t.Renotator
}

// ObjectToBraille transcribes obj with the translator's options.
func (t *Translator) ObjectToBraille(obj model.Object) (string, error) {
	if err := t.Options.Validate(); err != nil {
		return "", err
	}
	logger, _ := logging.WithTranscription(t.Logger)
	logger.Debug("transcription started", slog.String("kind", kindOf(obj)))

	out, err := t.dispatch(obj, t.Options, logger)
	if err != nil {
		logger.Debug("transcription failed", logging.Error(err))
		return "", err
	}
	logger.Debug("transcription finished", slog.Int("cells", len([]rune(out))))
	return out, nil
}

func (t *Translator) dispatch(obj model.Object, opts config.Options, logger *slog.Logger) (string, error) {
	switch v := obj.(type) {
	case model.Part:
		return t.part(v, opts, logger)
	case model.Measure:
		return t.measure(v, opts, logger)
	case model.KeyboardPair:
		return t.keyboard(v, opts, logger)
	case model.Score:
		if pair, ok := v.KeyboardParts(); ok {
			return t.keyboard(pair, opts, logger)
		}
		return t.score(v, opts, logger)
	case model.Stream:
		if pair, ok := v.KeyboardParts(); ok {
			return t.keyboard(pair, opts, logger)
		}
		return "", &brerrors.UnsupportedStreamError{Kind: "stream without a keyboard pair"}
	case model.Opus:
		return t.opus(v, opts, logger)
	case model.Event:
		return t.event(v, opts, logger)
	}
	return "", &brerrors.UnsupportedStreamError{Kind: kindOf(obj)}
}

func kindOf(obj model.Object) string {
	if e, ok := obj.(model.Event); ok {
		return e.Kind()
	}
	if obj == nil {
		return "nil"
	}
	return strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", obj), "model."))
}

// event writes a lone event as an unnumbered, headingless measure, as is.
func (t *Translator) event(e model.Event, opts config.Options, logger *slog.Logger) (string, error) {
	opts.InPlace = true
	return t.measure(model.Measure{Number: 1, Events: []model.Event{e}}, opts, logger)
}

func (t *Translator) measure(m model.Measure, opts config.Options, logger *slog.Logger) (string, error) {
	opts.ShowHeading = false
	opts.ShowFirstMeasureNumber = false
	return t.part(model.Part{Measures: []model.Measure{m}}, opts, logger)
}

func (t *Translator) part(p model.Part, opts config.Options, logger *slog.Logger) (string, error) {
	segs, err := t.segments(p, opts, logger)
	if err != nil {
		return "", err
	}
	lines, err := transcribe.Part(segs, opts)
	if err != nil {
		return "", err
	}
	return lines.Render(opts.Debug), nil
}

// Segments returns the segments a part is transcribed in.
func (t *Translator) Segments(p model.Part) ([]segment.Segment, error) {
	return t.segments(p, t.Options, logging.OrNop(t.Logger))
}

func (t *Translator) segments(p model.Part, opts config.Options, logger *slog.Logger) ([]segment.Segment, error) {
	notated, err := t.prepare(p, opts)
	if err != nil {
		return nil, err
	}
	segs, err := segment.Split(notated, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("part segmented",
		slog.String(logging.FieldPart, p.ID),
		slog.Int("measures", len(notated.Measures)),
		slog.Int("segments", len(segs)),
	)
	for _, s := range segs {
		logger.Debug("segment",
			slog.Int(logging.FieldSegment, s.Index),
			slog.String("measures", s.Range()),
			slog.Int("width", s.Width),
		)
	}
	return segs, nil
}

// prepare renotates a copy of p unless transcription is in place, in which
// case p must already be organized into measures.
func (t *Translator) prepare(p model.Part, opts config.Options) (model.Part, error) {
	if opts.InPlace {
		if !p.HasMeasures() {
			return model.Part{}, &brerrors.PreconditionError{Part: p.ID, Reason: "in-place transcription needs measures"}
		}
		return p, nil
	}
	notated, err := t.renotator().MakeNotation(p)
	if err != nil {
		return model.Part{}, fmt.Errorf("renotate part %q: %w", p.ID, err)
	}
	return notated, nil
}

func (t *Translator) keyboard(pair model.KeyboardPair, opts config.Options, logger *slog.Logger) (string, error) {
	upper, err := t.prepare(pair.Upper, opts)
	if err != nil {
		return "", err
	}
	lower, err := t.prepare(pair.Lower, opts)
	if err != nil {
		return "", err
	}
	up, low, err := segment.SplitKeyboard(upper, lower, opts)
	if err != nil {
		return "", err
	}
	logger.Debug("keyboard segmented", slog.Int("upper", len(up)), slog.Int("lower", len(low)))

	lines, err := transcribe.Combine(up, low, opts)
	if err != nil {
		return "", err
	}
	return lines.Render(opts.Debug), nil
}

// score writes the metadata summary, then every part. Parts are transcribed
// concurrently and joined in their score order.
func (t *Translator) score(s model.Score, opts config.Options, logger *slog.Logger) (string, error) {
	var out []string
	for _, md := range s.Metadata {
		if summary := MetadataString(md); summary != "" {
			out = append(out, summary)
		}
	}

	results := make([]string, len(s.Parts))
	errs := make([]error, len(s.Parts))
	swg := sizedwaitgroup.New(max(opts.Workers, 1))
	for i, p := range s.Parts {
		swg.Add()
		go func(i int, p model.Part) {
			defer swg.Done()
			results[i], errs[i] = t.part(p, opts, logger.With(slog.String(logging.FieldPart, p.ID)))
		}(i, p)
	}
	swg.Wait()

	for i, err := range errs {
		if err != nil {
			return "", fmt.Errorf("part %d: %w", i+1, err)
		}
	}
	out = append(out, results...)
	return strings.Join(out, "\n"), nil
}

func (t *Translator) opus(o model.Opus, opts config.Options, logger *slog.Logger) (string, error) {
	var out []string
	for _, s := range o.Scores {
		text, err := t.dispatch(s, opts, logger)
		if err != nil {
			return "", err
		}
		out = append(out, text)
	}
	return strings.Join(out, "\n\n"), nil
}

var wordPattern = regexp.MustCompile(`[A-Z]*[a-z]+`)

// MetadataString writes one "Label: value" line per work identifier, with
// the identifier split into title-cased words, sorted.
func MetadataString(md model.Metadata) string {
	title := cases.Title(language.Und)
	var lines []string
	for key, value := range md.WorkIDs {
		if value == "" {
			continue
		}
		label := title.String(strings.Join(wordPattern.FindAllString(key, -1), " "))
		lines = append(lines, label+": "+value)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
