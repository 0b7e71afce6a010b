package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minsukang/bindery/internal/config"
	"github.com/minsukang/bindery/internal/pipeline"
)

var (
	mergeInput         string
	mergeOutput        string
	mergeRecursive     bool
	mergeSentences     int
	mergeSummaryLength int
	mergeMaxChars      int
	mergeNoDetect      bool
	mergeVerbose       bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge all PDFs under a directory and build the summary index",
	Long: `Merge all PDFs under the input directory into one combined output and
write summary_index.json and summary.txt beside it.

Examples:
  bindery merge --input ./papers
  bindery merge --input ./papers --recursive --output ./out/volume.pdf
  bindery merge --input ./papers --sentences 5 --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		report, err := pipeline.Run(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("run failed", "error", err)
			return err
		}

		return output(report)
	},
}

// applyFlags overrides config values with flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("input") {
		cfg.Input = mergeInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = mergeOutput
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Recursive = mergeRecursive
	}
	if cmd.Flags().Changed("sentences") {
		cfg.Sentences = mergeSentences
	}
	if cmd.Flags().Changed("summary-length") {
		cfg.SummaryLength = mergeSummaryLength
	}
	if cmd.Flags().Changed("max-chars") {
		cfg.MaxChars = mergeMaxChars
	}
	if cmd.Flags().Changed("no-detect-language") {
		cfg.DetectLanguage = !mergeNoDetect
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = mergeVerbose
	}
}

func init() {
	mergeCmd.Flags().StringVar(&mergeInput, "input", "", "directory containing source PDFs (required)")
	mergeCmd.Flags().StringVar(&mergeOutput, "output", config.DefaultOutput, "combined PDF output path")
	mergeCmd.Flags().BoolVar(&mergeRecursive, "recursive", false, "scan subdirectories recursively")
	mergeCmd.Flags().IntVar(&mergeSentences, "sentences", config.DefaultSentences, "summary sentence count")
	mergeCmd.Flags().IntVar(&mergeSummaryLength, "summary-length", config.DefaultSummaryLength, "fallback summary length in characters")
	mergeCmd.Flags().IntVar(&mergeMaxChars, "max-chars", config.DefaultMaxChars, "per-document character budget for summarization")
	mergeCmd.Flags().BoolVar(&mergeNoDetect, "no-detect-language", false, "disable language detection, always use the default tokenizer")
	mergeCmd.Flags().BoolVar(&mergeVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(mergeCmd)
}
