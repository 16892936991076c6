package cmd

import (
	"io"
	"path/filepath"

	"github.com/jsphweid/pitchnamer/file"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/jsphweid/pitchnamer/report"
	"github.com/spf13/cobra"
)

func init() {
	reportCmd.Flags().IntVar(&fromFlag, "from", 0, "first measure to include")
	reportCmd.Flags().IntVar(&toFlag, "to", 0, "last measure to include")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <path>",
	Short: "Prints the text report of a score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReport(cmd.OutOrStdout(), args[0], file.Range{From: fromFlag, To: toFlag})
	},
}

func printReport(w io.Writer, path string, rng file.Range) error {
	src, err := file.Open(path, rng)
	if err != nil {
		return err
	}
	return report.WriteText(w, filepath.Base(path), pitch.ExtractLabeledPitches(src.Occurrences()))
}
