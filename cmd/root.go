package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/logging"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "musicbraille",
	Short:         "Transcribes scores into braille music",
	Long:          `Transcribes MIDI files and JSON event timelines into braille music text.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/musicbraille/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func setup() error {
	loaded, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	l, err := logging.NewFromConfig(loaded)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	return nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
