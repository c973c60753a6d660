package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"

	"github.com/jsphweid/musicbraille/constants"
	"github.com/jsphweid/musicbraille/file"
	"github.com/jsphweid/musicbraille/logging"
	"github.com/jsphweid/musicbraille/translate"
	"github.com/jsphweid/musicbraille/util"
)

var (
	batchFlags  *optionFlags
	batchFilter scoreFilter
	batchOut    string
	batchMax    int
)

func init() {
	batchFlags = addOptionFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output directory (default $MUSICBRAILLE_OUT or ./out)")
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "transcribe at most this many files")
	batchCmd.Flags().BoolVar(&batchFilter.keyboard, "keyboard", false, "treat the first two parts of every score as a keyboard pair")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Transcribes every score under a directory",
	Long: `Transcribes every MIDI file and JSON timeline under dir (default
$MUSICBRAILLE_MEDIA) into .brl files mirroring the input layout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := batchFlags.resolve(cmd, cfg.Transcription)
		if err != nil {
			return err
		}
		root := ""
		if len(args) == 1 {
			root = args[0]
		} else if root, err = constants.GetMediaDir(); err != nil {
			return err
		}
		out := batchOut
		if out == "" {
			out = constants.GetOutputDir()
		}

		results, err := runBatch(root, out, batchMax, translate.New(opts, logging.Component(logger, "batch")), batchFilter, opts.Workers)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBatch(cmd.OutOrStdout(), results))

		var failed int
		for _, r := range results {
			if r.err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

type batchResult struct {
	job   file.Job
	bytes int64
	err   error
}

func runBatch(root, out string, maxNum int, tr *translate.Translator, filter scoreFilter, workers int) ([]batchResult, error) {
	paths, err := util.GatherScorePaths(root, maxNum)
	if err != nil {
		return nil, err
	}
	jobs, err := file.Plan(paths, root, out)
	if err != nil {
		return nil, err
	}
	lock, err := file.Lock(out)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	log := logging.OrNop(tr.Logger)
	results := make([]batchResult, len(jobs))
	swg := sizedwaitgroup.New(max(workers, 1))
	for i, job := range jobs {
		swg.Add()
		go func(i int, job file.Job) {
			defer swg.Done()
			res := batchResult{job: job}
			text, err := transcribeFile(job.Input, tr, filter)
			if err == nil {
				res.bytes, err = file.Write(job.Output, text+"\n")
			}
			res.err = err
			if err != nil {
				log.Warn("transcription failed", slog.String("input", job.Input), logging.Error(err))
			} else {
				log.Info("transcribed", slog.String("input", job.Input), slog.String("output", job.Output))
			}
			results[i] = res
		}(i, job)
	}
	swg.Wait()
	return results, nil
}

func renderBatch(w io.Writer, results []batchResult) string {
	rows := make([][]string, 0, len(results)+1)
	sizes := make([]int64, 0, len(results))
	for _, r := range results {
		status, size := "ok", humanize.Bytes(uint64(r.bytes))
		if r.err != nil {
			status, size = r.err.Error(), "-"
		}
		sizes = append(sizes, r.bytes)
		rows = append(rows, []string{strconv.Itoa(r.job.Num), r.job.Input, size, status})
	}
	rows = append(rows, []string{"", "total", humanize.Bytes(util.Sum(sizes)), ""})
	return renderTable(w, []string{"#", "Input", "Size", "Status"}, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft})
}
