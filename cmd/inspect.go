package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspects a score",
	Long:  `Prints the decoded event timeline of a MIDI file or JSON timeline.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := loadScore(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, md := range score.Metadata {
			for _, key := range util.SortedKeys(md.WorkIDs) {
				fmt.Fprintf(w, "%s: %s\n", key, md.WorkIDs[key])
			}
		}
		fmt.Fprintln(w, renderTable(w, []string{"Part", "Measure", "Offset", "Kind", "Detail"}, inspectRows(score),
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft}))
		return nil
	},
}

func inspectRows(score model.Score) [][]string {
	var rows [][]string
	for _, p := range score.Parts {
		name := p.ID
		if p.Name != "" {
			name += " " + p.Name
		}
		if p.Staff != model.NoStaff {
			name += " (" + p.Staff.String() + ")"
		}
		for _, m := range p.Measures {
			for _, e := range m.Events {
				rows = append(rows, []string{name, strconv.Itoa(m.Number), formatOffset(e.Offset()), e.Kind(), describe(e)})
			}
		}
		for _, e := range p.Loose {
			rows = append(rows, []string{name, "-", formatOffset(e.Offset()), e.Kind(), describe(e)})
		}
	}
	return rows
}

func formatOffset(offset float64) string {
	return strconv.FormatFloat(offset, 'f', -1, 64)
}

// describe summarizes the musical content of an event.
func describe(e model.Event) string {
	switch v := e.(type) {
	case model.Note:
		return strings.TrimSpace(v.Pitch.String() + " " + v.Duration.String() + tieText(v.Tie))
	case model.Chord:
		names := make([]string, len(v.Notes))
		for i, n := range v.SortedNotes() {
			names[i] = n.Pitch.String()
		}
		return strings.Join(names, " ") + " " + v.Duration.String() + tieText(v.Tie)
	case model.Rest:
		if v.Dummy {
			return v.Duration.String() + " (dummy)"
		}
		return v.Duration.String()
	case model.Dynamic:
		return v.Symbol
	case model.KeySignature:
		return fmt.Sprintf("%+d fifths", v.Fifths)
	case model.TimeSignature:
		return fmt.Sprintf("%d/%d", v.Numerator, v.Denominator)
	case model.Clef:
		return string(v.Type)
	case model.TempoMark:
		text := v.Text
		if v.Metronome != nil {
			text = strings.TrimSpace(fmt.Sprintf("%s %s = %d", text, v.Metronome.Referent, v.Metronome.PerMinute))
		}
		return text
	case model.Barline:
		return string(v.Style)
	}
	return ""
}

func tieText(t model.Tie) string {
	switch t {
	case model.TieStart:
		return " tie start"
	case model.TieContinue:
		return " tie continue"
	case model.TieStop:
		return " tie stop"
	}
	return ""
}
