package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/musicbraille/file"
	"github.com/jsphweid/musicbraille/logging"
	"github.com/jsphweid/musicbraille/translate"
)

var (
	transcribeFlags  *optionFlags
	transcribeFilter scoreFilter
	transcribeOut    string
)

func init() {
	transcribeFlags = addOptionFlags(transcribeCmd)
	transcribeCmd.Flags().StringVar(&transcribeFilter.measures, "measures", "", "only transcribe measures a-b")
	transcribeCmd.Flags().BoolVar(&transcribeFilter.keyboard, "keyboard", false, "treat the first two parts as a keyboard pair")
	transcribeCmd.Flags().StringVar(&transcribeOut, "out", "", "write to a file instead of stdout")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribes one score",
	Long:  `Transcribes a MIDI file (.mid, .midi) or JSON timeline (.json) into braille music.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := transcribeFlags.resolve(cmd, cfg.Transcription)
		if err != nil {
			return err
		}
		out, err := transcribeFile(args[0], translate.New(opts, logging.Component(logger, "transcribe")), transcribeFilter)
		if err != nil {
			return err
		}
		if transcribeOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		_, err = file.Write(transcribeOut, out+"\n")
		return err
	},
}

func transcribeFile(path string, tr *translate.Translator, filter scoreFilter) (string, error) {
	score, err := loadScore(path)
	if err != nil {
		return "", err
	}
	score, err = filter.apply(score)
	if err != nil {
		return "", err
	}
	out, err := tr.ObjectToBraille(score)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
