package main

import (
	"github.com/spf13/cobra"

	"github.com/minsukang/bindery/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "bindery",
	Short: "Merge PDF collections into one bookmarked volume with a summary index",
	Long: `Bindery aggregates a directory of PDF files into a single combined
document and produces a structured index summarizing each source.

Each source contributes:
  - Its pages, appended in natural filename order
  - A bookmark at its first page in the combined output
  - An extractive summary in summary_index.json and summary.txt

Protected documents get one empty-password decryption attempt; documents
that stay unreadable are recorded with zero pages and processing continues.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bindery/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output-format", "o", "yaml", "report format: yaml or json",
	)

	rootCmd.AddCommand(versionCmd)
}
