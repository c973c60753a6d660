package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/musicbraille/logging"
	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/segment"
	"github.com/jsphweid/musicbraille/translate"
)

var (
	reportFlags  *optionFlags
	reportFilter scoreFilter
)

func init() {
	reportFlags = addOptionFlags(reportCmd)
	reportCmd.Flags().StringVar(&reportFilter.measures, "measures", "", "only report measures a-b")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Reports how a score is segmented",
	Long:  `Prints the segments every part of a score is transcribed in.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := reportFlags.resolve(cmd, cfg.Transcription)
		if err != nil {
			return err
		}
		score, err := loadScore(args[0])
		if err != nil {
			return err
		}
		if score, err = reportFilter.apply(score); err != nil {
			return err
		}
		rows, err := reportRows(translate.New(opts, logging.Component(logger, "report")), score)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, renderTable(w, []string{"Part", "Segment", "Measures", "Events", "Width", "Heading"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft}))
		return nil
	},
}

func reportRows(tr *translate.Translator, score model.Score) ([][]string, error) {
	var rows [][]string
	for _, p := range score.Parts {
		segs, err := tr.Segments(p)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", p.ID, err)
		}
		for _, s := range segs {
			rows = append(rows, []string{
				p.ID,
				strconv.Itoa(s.Index + 1),
				s.Range(),
				strconv.Itoa(s.EventCount()),
				strconv.Itoa(s.Width),
				headingText(s),
			})
		}
	}
	return rows, nil
}

func headingText(s segment.Segment) string {
	if !s.ShowHeading {
		return ""
	}
	var parts []string
	if k := s.Heading.Key; k != nil {
		parts = append(parts, describe(*k))
	}
	if t := s.Heading.Time; t != nil {
		parts = append(parts, describe(*t))
	}
	if t := s.Heading.Tempo; t != nil {
		parts = append(parts, describe(*t))
	}
	return strings.Join(parts, ", ")
}
